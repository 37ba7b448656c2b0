package models

import (
	"encoding/json"
	"fmt"
)

type StageStatus string

const (
	StatusIdle    StageStatus = "idle"
	StatusLoading StageStatus = "loading"
	StatusSuccess StageStatus = "success"
	StatusError   StageStatus = "error"
)

// StageState is the per-stage state of a product: Idle, Loading, Success{data} or Error{reason}.
// Fields are unexported so a success always carries its data and an error always carries a reason.
type StageState[T any] struct {
	status StageStatus
	data   T
	reason string
}

func Idle[T any]() StageState[T] {
	return StageState[T]{status: StatusIdle}
}

func Loading[T any]() StageState[T] {
	return StageState[T]{status: StatusLoading}
}

func Succeeded[T any](data T) StageState[T] {
	return StageState[T]{status: StatusSuccess, data: data}
}

func Failed[T any](reason string) StageState[T] {
	return StageState[T]{status: StatusError, reason: reason}
}

func (s StageState[T]) Status() StageStatus {
	if s.status == "" {
		return StatusIdle
	}
	return s.status
}

func (s StageState[T]) IsIdle() bool { return s.Status() == StatusIdle }
func (s StageState[T]) IsLoading() bool { return s.Status() == StatusLoading }
func (s StageState[T]) IsSuccess() bool { return s.status == StatusSuccess }
func (s StageState[T]) IsError() bool { return s.status == StatusError }

// Data returns the success payload; ok is false for every other state.
func (s StageState[T]) Data() (T, bool) {
	if s.status != StatusSuccess {
		var zero T
		return zero, false
	}
	return s.data, true
}

// Reason returns the failure message, empty unless the state is Error.
func (s StageState[T]) Reason() string {
	if s.status != StatusError {
		return ""
	}
	return s.reason
}

type stageStateJSON[T any] struct {
	Status StageStatus `json:"status"`
	Data   *T          `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func (s StageState[T]) MarshalJSON() ([]byte, error) {
	out := stageStateJSON[T]{Status: s.Status()}
	if data, ok := s.Data(); ok {
		out.Data = &data
	}
	out.Error = s.Reason()
	return json.Marshal(out)
}

func (s *StageState[T]) UnmarshalJSON(b []byte) error {
	var in stageStateJSON[T]
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	switch in.Status {
	case StatusIdle, "":
		*s = Idle[T]()
	case StatusLoading:
		*s = Loading[T]()
	case StatusSuccess:
		if in.Data == nil {
			return fmt.Errorf("success stage state without data")
		}
		*s = Succeeded(*in.Data)
	case StatusError:
		*s = Failed[T](in.Error)
	default:
		return fmt.Errorf("unknown stage status %q", in.Status)
	}
	return nil
}
