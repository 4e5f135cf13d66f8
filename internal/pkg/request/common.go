package request

// ByIDRequest binds a UUID ":id" path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}
