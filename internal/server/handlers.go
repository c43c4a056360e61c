package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"dashboard/internal/apperr"
	"dashboard/internal/models"
	"dashboard/internal/posts"
	"dashboard/internal/products"
)

const recentPosts = 3

type overview struct {
	PostCount    int         `json:"postCount"`
	ProductCount int         `json:"productCount"`
	RecentPosts  []posts.Row `json:"recentPosts"`
}

func (s *Server) handleOverview(c *gin.Context) {
	s.cached(c, func(ctx context.Context) (any, error) {
		var o overview
		var err error
		if o.PostCount, err = models.CountPosts(ctx, s.DB); err != nil {
			return nil, s.internal(ctx, "count posts", err)
		}
		if o.ProductCount, err = models.CountProducts(ctx, s.DB); err != nil {
			return nil, s.internal(ctx, "count products", err)
		}
		if o.RecentPosts, err = s.Posts.List(ctx, recentPosts); err != nil {
			return nil, err
		}
		return o, nil
	})
}

func (s *Server) internal(ctx context.Context, op string, err error) error {
	s.log.Error(ctx, "dashboard query failed", "op", op, "error", err)
	return apperr.Internal(err)
}

func (s *Server) handlePostListing(c *gin.Context) {
	s.cached(c, func(ctx context.Context) (any, error) {
		return s.Posts.List(ctx, 0)
	})
}

func (s *Server) handleProductListing(c *gin.Context) {
	s.cached(c, func(ctx context.Context) (any, error) {
		return s.Products.List(ctx)
	})
}

func (s *Server) handleUserPosts(c *gin.Context) {
	id := c.Param("id")
	s.cached(c, func(ctx context.Context) (any, error) {
		return s.Posts.ListByAuthor(ctx, id)
	})
}

// posts

func (s *Server) handleCreatePost(c *gin.Context) {
	var in posts.CreateInput
	if !bind(c, &in) {
		return
	}
	p, err := s.Posts.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, p)
}

func (s *Server) handleGetPost(c *gin.Context) {
	p, err := s.Posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

func (s *Server) handleUpdatePost(c *gin.Context) {
	var in posts.UpdateInput
	if !bind(c, &in) {
		return
	}
	in.ID = c.Param("id")
	p, err := s.Posts.Update(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

func (s *Server) handleDeletePost(c *gin.Context) {
	id, err := s.Posts.Delete(c.Request.Context(), posts.DeleteInput{ID: c.Param("id")})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"id": id})
}

// products

func (s *Server) handleCreateProduct(c *gin.Context) {
	var in products.Input
	if !bind(c, &in) {
		return
	}
	p, err := s.Products.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, p)
}

func (s *Server) handleGetProduct(c *gin.Context) {
	p, err := s.Products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

func (s *Server) handleUpdateProduct(c *gin.Context) {
	var in products.UpdateInput
	if !bind(c, &in) {
		return
	}
	in.ID = c.Param("id")
	p, err := s.Products.Update(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

func (s *Server) handleDeleteProduct(c *gin.Context) {
	id, err := s.Products.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"id": id})
}
