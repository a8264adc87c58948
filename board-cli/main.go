// board-cli prints a project's Kanban board and moves tasks through their
// lifecycle against a running taskboard server.
//
//	board-cli login --email ana@example.com --password secret
//	board-cli board --project <id>
//	board-cli move --task <id> --action start
//	board-cli comment --task <id> --text "looks good"
//	board-cli whoami
//	board-cli logout
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"taskboard/client"
	"taskboard/logging"
	"taskboard/models"

	"github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	home, _ := os.UserHomeDir()

	flagSet := pflag.NewFlagSet("board-cli", pflag.ContinueOnError)
	server := flagSet.String("server", envOr("TASKBOARD_URL", "http://localhost:8080"), "taskboard server URL")
	statePath := flagSet.String("state", filepath.Join(home, ".taskboard", "state.json"), "client state file")
	email := flagSet.String("email", "", "login email")
	password := flagSet.String("password", "", "login password")
	projectID := flagSet.String("project", "", "project id")
	taskID := flagSet.String("task", "", "task id")
	action := flagSet.String("action", "", "lifecycle action (start, resume, complete, hold, block, reopen)")
	text := flagSet.String("text", "", "comment text")
	logFile := flagSet.String("log-file", "", "write client logs to this file")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	logging.InitLogger(logging.Options{SystemName: "board-cli", File: *logFile, Level: "warn"})

	rest := flagSet.Args()
	if len(rest) != 1 {
		return errors.New("expected one command: login, whoami, refresh, board, move, comment or logout")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	state, err := client.LoadState(*statePath)
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	api := client.NewAPIClient(*server)
	api.SetToken(state.Token)

	switch rest[0] {
	case "login":
		res, err := api.Login(ctx, *email, *password)
		if err != nil {
			return err
		}
		if err := state.Login(api.Token(), res.User); err != nil {
			return err
		}
		if err := state.Refresh(ctx, api); err != nil {
			return err
		}
		fmt.Printf("logged in as %s (%s)\n", res.User.Name, res.User.Role)
	case "whoami":
		if state.Token == "" {
			return client.ErrNotLoggedIn
		}
		me, err := api.Me(ctx)
		if err != nil {
			return err
		}
		if err := state.Login(state.Token, *me); err != nil {
			return err
		}
		fmt.Printf("%s <%s> %s, %s\n", me.Name, me.Email, me.Role, me.JobTitle)
	case "refresh":
		if err := state.Refresh(ctx, api); err != nil {
			return err
		}
		fmt.Printf("%d projects, %d tasks\n", len(state.Projects), len(state.Tasks))
	case "board":
		if *projectID == "" {
			return errors.New("--project is required")
		}
		board, err := api.Board(ctx, *projectID)
		if err != nil {
			return err
		}
		opts := client.RenderOptions{Title: projectTitle(state, *projectID), Names: state.UserNames()}
		if state.CurrentUser != nil {
			opts.Viewer = &state.CurrentUser.ID
		}
		fmt.Println(client.RenderBoard(*board, opts))
	case "move":
		if *taskID == "" || *action == "" {
			return errors.New("--task and --action are required")
		}
		if err := state.CheckMove(*taskID); err != nil {
			return err
		}
		task, err := api.ChangeStatus(ctx, *taskID, models.StatusChange{Action: models.TaskAction(*action)})
		if err != nil {
			return err
		}
		if err := state.PutTask(*task); err != nil {
			return err
		}
		fmt.Printf("%s is now %s\n", task.Title, task.Status)
	case "comment":
		if *taskID == "" || *text == "" {
			return errors.New("--task and --text are required")
		}
		if state.Token == "" || state.CurrentUser == nil {
			return client.ErrNotLoggedIn
		}
		task, err := api.AddTaskComment(ctx, *taskID, models.CommentRequest{Content: *text, AuthorID: state.CurrentUser.ID.Hex()})
		if err != nil {
			return err
		}
		if err := state.PutTask(*task); err != nil {
			return err
		}
		fmt.Printf("%s now has %d comments\n", task.Title, len(task.Comments))
	case "logout":
		if state.Token != "" {
			if err := api.Logout(ctx); err != nil {
				logging.Logger.Warnf("Event ID: LOGOUT_REQUEST_FAILED, Description: Server logout failed, clearing local session anyway: %v", err)
			}
		}
		if err := state.Logout(); err != nil {
			return err
		}
		fmt.Println("logged out")
	default:
		return fmt.Errorf("unknown command %q", rest[0])
	}
	return nil
}

func projectTitle(state *client.State, id string) string {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ""
	}
	for _, p := range state.Projects {
		if p.ID == oid {
			return models.IconGlyph(p.IconName) + " " + p.Title
		}
	}
	return ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
