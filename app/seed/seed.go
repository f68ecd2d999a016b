// Package seed fills a store with the sample posts used for demos and local development.
package seed

import (
	"context"
	"fmt"
	"time"

	"modernblog/app/models"
	"modernblog/app/repositories"

	"github.com/rs/zerolog/log"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// SamplePosts returns fresh copies of the sample posts.
func SamplePosts() []*models.Post {
	return []*models.Post{
		{
			Title:    "Getting Started with React and MongoDB",
			Content:  "React and MongoDB make a powerful combination for building modern web applications. React provides a dynamic and responsive user interface, while MongoDB offers flexible data storage. In this post, we'll explore how to integrate these technologies to create a full-stack blog application. We'll cover setting up your development environment, creating reusable components, and connecting to a MongoDB database through a REST API.",
			Date:     day("2024-11-20"),
			Image:    "https://images.unsplash.com/photo-1633356122544-f134324a6cee?w=800&h=400&fit=crop",
			Category: "Web Development",
			Author:   "Sarah Johnson",
			Comments: []models.Comment{
				{Name: "John Doe", Message: "Great article! Very helpful for beginners.", Date: day("2024-11-21")},
			},
		},
		{
			Title:    "Modern CSS Techniques for 2024",
			Content:  "CSS has evolved significantly over the years. Today, we have powerful features like Grid, Flexbox, Custom Properties, and Container Queries that make styling websites easier and more maintainable. In this comprehensive guide, we'll dive deep into modern CSS techniques that will elevate your web development skills. Learn how to create responsive layouts, implement smooth animations, and utilize CSS variables for better theme management.",
			Date:     day("2024-11-22"),
			Image:    "https://images.unsplash.com/photo-1507721999472-8ed4421c4af2?w=800&h=400&fit=crop",
			Category: "CSS",
			Author:   "Mike Chen",
			Comments: []models.Comment{},
		},
		{
			Title:    "JavaScript Best Practices in 2024",
			Content:  "Writing clean, maintainable JavaScript code is essential for any modern web developer. In this article, we'll explore the latest best practices including ES6+ features, async/await patterns, error handling strategies, and code organization techniques. We'll also discuss common pitfalls to avoid and how to write more efficient, readable code that your team will appreciate. Whether you're a beginner or experienced developer, these practices will help improve your JavaScript skills.",
			Date:     day("2024-11-25"),
			Image:    "https://images.unsplash.com/photo-1579468118864-1b9ea3c0db4a?w=800&h=400&fit=crop",
			Category: "JavaScript",
			Author:   "Emily Rodriguez",
			Comments: []models.Comment{
				{Name: "Alex Smith", Message: "These tips are gold! Thanks for sharing.", Date: day("2024-11-26")},
				{Name: "Maria Garcia", Message: "I've been looking for a resource like this!", Date: day("2024-11-27")},
			},
		},
	}
}

// Seed removes every post from repo and inserts the sample posts.
func Seed(ctx context.Context, repo repositories.PostRepository) ([]*models.Post, error) {
	if err := repo.Clear(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear posts: %w", err)
	}
	log.Info().Msg("cleared existing posts")

	posts := SamplePosts()
	for _, post := range posts {
		if err := post.Validate(); err != nil {
			return nil, err
		}
		if err := repo.Create(ctx, post); err != nil {
			return nil, fmt.Errorf("failed to insert %q: %w", post.Title, err)
		}
	}
	log.Info().Int("count", len(posts)).Msg("sample posts added")
	return posts, nil
}
