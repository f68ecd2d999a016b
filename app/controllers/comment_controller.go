package controllers

import (
	"net/http"

	"modernblog/app/models"
	"modernblog/app/services"

	"github.com/gorilla/mux"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	commentService *services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// Create appends a comment and answers with the whole post
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	post, err := cc.commentService.AddComment(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	sendJSON(w, http.StatusCreated, post)
}

// Delete removes a comment and answers with the whole post
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	post, err := cc.commentService.RemoveComment(r.Context(), vars["postId"], vars["commentId"])
	if err != nil {
		handleError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, post)
}
