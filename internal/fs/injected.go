package fs

import (
	"errors"
	"os"
	"sync"
)

// Op names an [FS] method that [Faulty] can fail.
type Op string

// Operations [Faulty] can fail.
const (
	OpReadFile        Op = "ReadFile"
	OpWriteFileAtomic Op = "WriteFileAtomic"
	OpOpenFile        Op = "OpenFile"
	OpMkdirAll        Op = "MkdirAll"
	OpStat            Op = "Stat"
)

// InjectedError marks an error as intentionally injected by [Faulty].
//
// It wraps the underlying error so errors.Is/As continue to work.
type InjectedError struct {
	Op  Op
	Err error
}

// Error returns the underlying error's message.
func (e *InjectedError) Error() string {
	return string(e.Op) + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *InjectedError) Unwrap() error {
	return e.Err
}

// IsInjected reports whether err (or any wrapped error) was injected by [Faulty].
func IsInjected(err error) bool {
	var injected *InjectedError

	return errors.As(err, &injected)
}

// Faulty wraps an [FS] and fails selected operations.
//
// Unlike a random fault injector it is fully deterministic: an operation
// fails every time from [Faulty.Fail] until [Faulty.Heal].
type Faulty struct {
	fs FS

	mu    sync.Mutex
	fails map[Op]error
}

// NewFaulty wraps fs. Panics if fs is nil.
func NewFaulty(fs FS) *Faulty {
	if fs == nil {
		panic("fs is nil")
	}

	return &Faulty{fs: fs, fails: make(map[Op]error)}
}

// Fail makes op return err (wrapped in [InjectedError]) until healed.
func (f *Faulty) Fail(op Op, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fails[op] = &InjectedError{Op: op, Err: err}
}

// Heal stops failing op.
func (f *Faulty) Heal(op Op) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.fails, op)
}

func (f *Faulty) injected(op Op) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.fails[op]
}

func (f *Faulty) ReadFile(path string) ([]byte, error) {
	if err := f.injected(OpReadFile); err != nil {
		return nil, err
	}

	return f.fs.ReadFile(path)
}

func (f *Faulty) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := f.injected(OpWriteFileAtomic); err != nil {
		return err
	}

	return f.fs.WriteFileAtomic(path, data, perm)
}

func (f *Faulty) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	if err := f.injected(OpOpenFile); err != nil {
		return nil, err
	}

	return f.fs.OpenFile(path, flag, perm)
}

func (f *Faulty) MkdirAll(path string, perm os.FileMode) error {
	if err := f.injected(OpMkdirAll); err != nil {
		return err
	}

	return f.fs.MkdirAll(path, perm)
}

func (f *Faulty) Stat(path string) (os.FileInfo, error) {
	if err := f.injected(OpStat); err != nil {
		return nil, err
	}

	return f.fs.Stat(path)
}

// Exists is failed through [OpStat].
func (f *Faulty) Exists(path string) (bool, error) {
	if err := f.injected(OpStat); err != nil {
		return false, err
	}

	return f.fs.Exists(path)
}

var _ FS = (*Faulty)(nil)
