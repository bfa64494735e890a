package handlers

import (
	"log"
	"net/http"
	"strconv"

	"taskvault/internal/middleware"
	"taskvault/internal/models"
	"taskvault/internal/storage"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	storage storage.Storage
}

func NewTaskHandler(st storage.Storage) *TaskHandler {
	return &TaskHandler{storage: st}
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task ID"})
		return 0, false
	}
	return id, true
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	tasks, err := h.storage.ListTasks(c.Request.Context(), userID)
	if err != nil {
		log.Printf("failed to list tasks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.storage.GetTask(c.Request.Context(), id, userID)
	if err != nil {
		log.Printf("failed to fetch task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var in models.TaskCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": formatValidationError(err)})
		return
	}

	task, err := h.storage.CreateTask(c.Request.Context(), userID, in)
	if err != nil {
		log.Printf("failed to create task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create task"})
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	id, ok := taskID(c)
	if !ok {
		return
	}

	var patch models.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": formatValidationError(err)})
		return
	}

	task, err := h.storage.UpdateTask(c.Request.Context(), id, userID, patch)
	if err != nil {
		log.Printf("failed to update task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	id, ok := taskID(c)
	if !ok {
		return
	}

	deleted, err := h.storage.DeleteTask(c.Request.Context(), id, userID)
	if err != nil {
		log.Printf("failed to delete task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete task"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
