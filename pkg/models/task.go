package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TaskID identifies a task. Ids are compared as strings; numeric ids
// written by older clients are accepted when decoding.
type TaskID string

func (id *TaskID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TaskID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task id must be a string or number: %w", err)
	}
	*id = TaskID(n.String())
	return nil
}

func (id TaskID) String() string {
	return string(id)
}

type Task struct {
	ID        TaskID    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a copy that shares nothing with t.
func (t *Task) Clone() *Task {
	c := *t
	return &c
}
