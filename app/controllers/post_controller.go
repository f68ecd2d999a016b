package controllers

import (
	"net/http"

	"modernblog/app/models"
	"modernblog/app/services"

	"github.com/gorilla/mux"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	postService *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService) *PostController {
	return &PostController{postService: postService}
}

// Index lists all posts, newest first
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPosts(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, posts)
}

// Show returns a single post. A matching If-None-Match answers 304.
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	post, err := pc.postService.GetPost(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleError(w, r, err)
		return
	}

	tag, err := models.ETag(post)
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("ETag", tag)
	if r.Header.Get("If-None-Match") == tag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	sendJSON(w, http.StatusOK, post)
}

// Create stores a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	post, err := pc.postService.CreatePost(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	sendJSON(w, http.StatusCreated, post)
}

// Edit merges the supplied fields into a post, honouring If-Match
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	var patch models.PostPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	post, err := pc.postService.UpdatePost(r.Context(), mux.Vars(r)["id"], &patch, r.Header.Get("If-Match"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if tag, err := models.ETag(post); err == nil {
		w.Header().Set("ETag", tag)
	}
	sendJSON(w, http.StatusOK, post)
}

// Delete removes a post together with its comments
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := pc.postService.DeletePost(r.Context(), mux.Vars(r)["id"]); err != nil {
		handleError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}

// Search lists posts containing the query in title, content or category
func (pc *PostController) Search(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.SearchPosts(r.Context(), mux.Vars(r)["query"])
	if err != nil {
		handleError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, posts)
}

// ByCategory lists posts in exactly one category
func (pc *PostController) ByCategory(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPostsByCategory(r.Context(), mux.Vars(r)["category"])
	if err != nil {
		handleError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, posts)
}
