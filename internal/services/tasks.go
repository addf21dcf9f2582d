package services

import (
	"errors"
	"time"

	"todo-backend/backend/internal/models"

	"gorm.io/gorm"
)

// ErrNoFields is returned by UpdateTask when the request supplies
// neither a title nor a completed value.
var ErrNoFields = errors.New("no fields provided to update")

type TaskService interface {
	GetTasks(db *gorm.DB) ([]models.Task, error)
	CreateTask(db *gorm.DB, title string) (models.Task, error)
	GetTaskByID(db *gorm.DB, id int64) (models.Task, error)
	UpdateTask(db *gorm.DB, id int64, title *string, completed *bool) (models.Task, error)
	DeleteTask(db *gorm.DB, id int64) error
	ToggleTask(db *gorm.DB, id int64) (models.Task, error)
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

// GetTasks returns every task, newest first. Ids are assigned in
// increasing order, so descending id order is creation order reversed.
func (s *TaskServiceImpl) GetTasks(db *gorm.DB) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := db.Order("id DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, title string) (models.Task, error) {
	trimmed, err := models.NormalizeTitle(title)
	if err != nil {
		return models.Task{}, err
	}

	var task models.Task
	err = db.Transaction(func(tx *gorm.DB) error {
		task = models.Task{
			Title:     trimmed,
			Completed: false,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		// Read back the inserted row so the response reflects exactly
		// what the store holds.
		return tx.First(&task, task.ID).Error
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskServiceImpl) GetTaskByID(db *gorm.DB, id int64) (models.Task, error) {
	var task models.Task
	if err := db.First(&task, id).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, id int64, title *string, completed *bool) (models.Task, error) {
	if title == nil && completed == nil {
		return models.Task{}, ErrNoFields
	}

	var task models.Task
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, id).Error; err != nil {
			return err
		}

		if title != nil {
			trimmed, err := models.NormalizeTitle(*title)
			if err != nil {
				return err
			}
			task.Title = trimmed
		}
		if completed != nil {
			task.Completed = *completed
		}

		updates := map[string]interface{}{
			"title":     task.Title,
			"completed": task.Completed,
		}
		if err := tx.Model(&models.Task{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&task, id).Error
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, id int64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, id).Error
	})
}

func (s *TaskServiceImpl) ToggleTask(db *gorm.DB, id int64) (models.Task, error) {
	var task models.Task
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, id).Error; err != nil {
			return err
		}

		flipped := !task.Completed
		if err := tx.Model(&models.Task{}).Where("id = ?", id).Update("completed", flipped).Error; err != nil {
			return err
		}
		return tx.First(&task, id).Error
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}
