package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleCreateChat(c *gin.Context) {
	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondBadRequest(c, "Invalid chat payload")
		return
	}

	chat, err := s.chats.CreateChat(c.Request.Context(), currentUser(c).ID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "chat": chat})
}

func (s *Server) handleListChats(c *gin.Context) {
	chats, err := s.chats.ListChats(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "chats": chats})
}

func (s *Server) handleListChatMessages(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	messages, err := s.chats.ListMessages(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "messages": messages})
}

func (s *Server) handleSendChatMessage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Message content is required")
		return
	}

	reply, err := s.chats.SendMessage(c.Request.Context(), currentUser(c).ID, id, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": reply})
}

func (s *Server) handleDeleteChat(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.chats.DeleteChat(c.Request.Context(), currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
