package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/ludo-technologies/jmetrics/domain"
)

// ciVariables are set by common CI runners, where bars only clutter logs
var ciVariables = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "BUILDKITE", "TF_BUILD"}

// IsInteractiveEnvironment reports whether stderr is a terminal outside CI
func IsInteractiveEnvironment() bool {
	for _, name := range ciVariables {
		if os.Getenv(name) != "" {
			return false
		}
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// GatherTally counts what the inputs of a run produced so far
type GatherTally struct {
	Sources int
	Skipped int
	Classes int
	Methods int
}

func (t GatherTally) String() string {
	s := fmt.Sprintf("%d classes, %d methods", t.Classes, t.Methods)
	if t.Skipped > 0 {
		s += fmt.Sprintf(", %d skipped", t.Skipped)
	}
	return s
}

// ProgressManagerImpl draws one bar per step on stderr
type ProgressManagerImpl struct {
	writer io.Writer
	tasks  []*TaskProgressImpl
}

// NewProgressManager returns bars when enabled on an interactive terminal, a no-op otherwise
func NewProgressManager(enabled bool) domain.ProgressManager {
	if !enabled || !IsInteractiveEnvironment() {
		return &NoOpProgressManager{}
	}
	return &ProgressManagerImpl{writer: os.Stderr}
}

// StartTask opens a bar over total inputs
func (pm *ProgressManagerImpl) StartTask(description string, total int) domain.TaskProgress {
	task := newTaskProgress(pm.writer, description, total)
	pm.tasks = append(pm.tasks, task)
	return task
}

func (pm *ProgressManagerImpl) IsInteractive() bool {
	return true
}

// Close completes every bar still open
func (pm *ProgressManagerImpl) Close() {
	for _, task := range pm.tasks {
		task.Complete()
	}
	pm.tasks = nil
}

// TaskProgressImpl shows the input being gathered and the running tally of
// classes and methods. Record may be called from several goroutines.
type TaskProgressImpl struct {
	bar   *progressbar.ProgressBar
	title string

	mu     sync.Mutex
	tally  GatherTally
	status string
	done   bool
}

func newTaskProgress(w io.Writer, title string, total int) *TaskProgressImpl {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(24),
		progressbar.OptionSetDescription(title),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &TaskProgressImpl{bar: bar, title: title, status: title}
}

func (tp *TaskProgressImpl) Increment(n int) {
	_ = tp.bar.Add(n)
}

// Describe replaces the text after the step title
func (tp *TaskProgressImpl) Describe(description string) {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	tp.setStatus(description)
}

// Record adds the classes and methods of a gathered fact document to the
// tally and shows the input it came from
func (tp *TaskProgressImpl) Record(item string, result any, err error) {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	switch facts, ok := result.(*domain.Facts); {
	case err != nil:
		tp.tally.Skipped++
	case ok && facts != nil:
		tp.tally.Sources++
		tp.tally.Classes += len(facts.Classes)
		tp.tally.Methods += facts.MethodCount()
	default:
		tp.tally.Sources++
	}
	tp.setStatus(fmt.Sprintf("%s (%s)", filepath.Base(item), tp.tally))
}

func (tp *TaskProgressImpl) setStatus(description string) {
	tp.status = tp.title + ": " + description
	tp.bar.Describe(tp.status)
}

// Tally returns the counts recorded so far
func (tp *TaskProgressImpl) Tally() GatherTally {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	return tp.tally
}

// Status returns the text currently shown next to the bar
func (tp *TaskProgressImpl) Status() string {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	return tp.status
}

// Complete finishes the bar once and logs the tally
func (tp *TaskProgressImpl) Complete() {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	if tp.done {
		return
	}
	tp.done = true
	_ = tp.bar.Finish()

	logrus.WithFields(logrus.Fields{
		"step":    tp.title,
		"sources": tp.tally.Sources,
		"skipped": tp.tally.Skipped,
		"classes": tp.tally.Classes,
		"methods": tp.tally.Methods,
	}).Debug("step complete")
}

// NoOpProgressManager is used when bars are disabled
type NoOpProgressManager struct{}

func (pm *NoOpProgressManager) StartTask(string, int) domain.TaskProgress {
	return &NoOpTaskProgress{}
}

func (pm *NoOpProgressManager) IsInteractive() bool { return false }
func (pm *NoOpProgressManager) Close()              {}

// NoOpTaskProgress discards every update
type NoOpTaskProgress struct{}

func (tp *NoOpTaskProgress) Increment(int)             {}
func (tp *NoOpTaskProgress) Describe(string)           {}
func (tp *NoOpTaskProgress) Record(string, any, error) {}
func (tp *NoOpTaskProgress) Complete()                 {}
