package inventory

// SetCommentPageSize permite probar la paginación perezosa con páginas pequeñas.
func SetCommentPageSize(uc *CommentUseCase, n int) {
	uc.pageSize = n
}
