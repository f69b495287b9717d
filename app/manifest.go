// Package app wires the application modules into the framework.
package app

import (
	"reflect"

	"github.com/km-arc/go-modular/app/contracts"
	"github.com/km-arc/go-modular/app/services"
	"github.com/km-arc/go-modular/framework/modules"
)

// Marker is the capability every application module implements.
func Marker() reflect.Type { return modules.TypeOf[contracts.Module]() }

// Manifest lists every module compiled into the binary. Which of them run is
// decided by the Services:<FullTypeName>:Enabled flags.
func Manifest() *modules.Manifest {
	return new(modules.Manifest).
		Capability(
			modules.TypeOf[contracts.EventHandler](),
			modules.TypeOf[contracts.TicketService](),
		).
		// handlers are looked up at publish time
		Provide(services.NewMemoryEventBus, modules.WithRequires(modules.TypeOf[contracts.EventHandler]())).
		Provide(services.NewConfigService).
		Provide(services.NewCacheTicketStore).
		Provide(services.NewTicketManager).
		Provide(services.NewAuditLog)
}
