// Package http provides the JSON request and response helpers used by the
// admin and application routes.
//
//	var in struct{ Title string `json:"title"` }
//	if err := gohttp.Bind(r, &in); err != nil {
//	    gohttp.NewResponse(w).Error(http.StatusBadRequest, err.Error())
//	    return
//	}
//	gohttp.NewResponse(w).Created(in)
package http
