package assistant

import (
	"fmt"
	"strings"
)

// Task is the closed set of things the assistant can be asked to do.
type Task int

const (
	TaskQuestion Task = iota
	TaskSummary
	TaskExplain
	TaskQuiz
	TaskNotes
)

var taskNames = [...]string{
	TaskQuestion: "question",
	TaskSummary:  "summary",
	TaskExplain:  "explain",
	TaskQuiz:     "quiz",
	TaskNotes:    "notes",
}

func (t Task) String() string {
	if t < 0 || int(t) >= len(taskNames) {
		return fmt.Sprintf("Task(%d)", int(t))
	}
	return taskNames[t]
}

// UnknownTaskError reports a request type outside the supported set.
type UnknownTaskError struct {
	Value string
}

func (e *UnknownTaskError) Error() string {
	return "Unknown request type: " + e.Value
}

// ParseTask maps a request type such as "Quiz" to its Task, ignoring case.
func ParseTask(s string) (Task, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for i, name := range taskNames {
		if name == v {
			return Task(i), nil
		}
	}
	return 0, &UnknownTaskError{Value: v}
}
