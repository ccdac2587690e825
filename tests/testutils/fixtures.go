package testutils

import (
	"github.com/google/uuid"

	"todo-web/internal/config"
	"todo-web/models"
)

func CreateTestUser(role models.Role) *models.User {
	return &models.User{
		ID:       uuid.New().String(),
		FullName: "Test User",
		Email:    "test@example.com",
		Role:     role,
	}
}

func CreateTestTodo(item string, done bool) models.Todo {
	return models.Todo{
		ID:     uuid.New().String(),
		Item:   item,
		IsDone: done,
		UserID: uuid.New().String(),
		Owner:  models.TodoOwner{FullName: "Test User"},
	}
}

// GetTestConfig points at the real templates two directories up, which
// is where every package-level test lives relative to the repo root.
func GetTestConfig(apiBaseURL string) *config.Config {
	return &config.Config{
		APIBaseURL:    apiBaseURL,
		Port:          "0",
		SessionSecret: []byte("test_session_secret_for_testing_only"),
		TemplatesDir:  "../../templates",
		AdminPageSize: 10,
	}
}
