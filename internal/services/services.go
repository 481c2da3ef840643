package services

import (
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/db"
	notification2 "github.com/taskdeck/taskdeck/internal/services/notification"
	project2 "github.com/taskdeck/taskdeck/internal/services/project"
	task2 "github.com/taskdeck/taskdeck/internal/services/task"
	user2 "github.com/taskdeck/taskdeck/internal/services/user"
)

type Services struct {
	User         *user2.UserService
	Project      *project2.ProjectService
	Task         *task2.TaskService
	Notification *notification2.NotificationService
}

func NewServices(conf *config.Config) *Services {
	dbconn := db.NewConn(conf)

	userRepo := user2.NewUserRepo(dbconn)
	projectRepo := project2.NewProjectRepo(dbconn)
	taskRepo := task2.NewTaskRepo(dbconn)

	userSvc := user2.NewUserService(userRepo)

	return &Services{
		User:         userSvc,
		Project:      project2.NewProjectService(projectRepo),
		Task:         task2.NewTaskService(taskRepo, userSvc, projectRepo),
		Notification: notification2.NewNotificationService(taskRepo),
	}
}
