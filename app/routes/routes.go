package routes

import (
	"encoding/json"
	"net/http"

	"modernblog/app/controllers"
	"modernblog/app/middleware"
	"modernblog/app/services"

	"github.com/gorilla/mux"
)

// SetupRoutes builds the application's router and wraps it in the global middleware.
// CORS sits outside the router so preflight requests are answered for every route.
func SetupRoutes(postService *services.PostService, commentService *services.CommentService, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(notFound)

	postController := controllers.NewPostController(postService)
	commentController := controllers.NewCommentController(commentService)

	router.HandleFunc("/", welcome).Methods("GET")
	router.HandleFunc("/health", health).Methods("GET")

	// API routes
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)

	// Posts API endpoints
	posts := api.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("", postController.Index).Methods("GET")
	posts.HandleFunc("", postController.Create).Methods("POST")
	posts.HandleFunc("/search/{query}", postController.Search).Methods("GET")
	posts.HandleFunc("/category/{category}", postController.ByCategory).Methods("GET")
	posts.HandleFunc("/{id}", postController.Show).Methods("GET")
	posts.HandleFunc("/{id}", postController.Edit).Methods("PUT")
	posts.HandleFunc("/{id}", postController.Delete).Methods("DELETE")

	// Comments API endpoints
	posts.HandleFunc("/{id}/comments", commentController.Create).Methods("POST")
	posts.HandleFunc("/{postId}/comments/{commentId}", commentController.Delete).Methods("DELETE")

	var handler http.Handler = router
	handler = middleware.CORS(allowedOrigins)(handler)
	handler = middleware.Recoverer(handler)
	handler = middleware.Logger(handler)
	handler = middleware.RequestID(handler)
	return handler
}

func writeJSON(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func welcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to Blog API"})
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK", "message": "Blog server running"})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Route not found"})
}
