package view_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/client"
	"github.com/secmon-lab/civicsnap/pkg/domain/interfaces"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/domain/types"
)

// fakeIssues is an IssueClient backed by a map. A list call blocks while
// its filter has a gate registered.
type fakeIssues struct {
	mu        sync.Mutex
	issues    map[types.IssueID]*model.Issue
	listErr   error
	getErr    error
	updateErr error
	deleteErr error
	voteErr   error
	createErr error
	stats     *model.Stats
	statsErr  error
	analysis  *model.AIAnalysis

	gates     map[model.Filter]chan struct{}
	voteGate  chan struct{}
	listCalls []model.Filter
	getCalls  int
	updates   []types.Status
	deletes   []types.IssueID
	creates   []*model.CreateIssueRequest
}

var _ interfaces.IssueClient = (*fakeIssues)(nil)

func newFakeIssues(issues ...*model.Issue) *fakeIssues {
	f := &fakeIssues{
		issues: make(map[types.IssueID]*model.Issue),
		gates:  make(map[model.Filter]chan struct{}),
	}
	for _, issue := range issues {
		f.issues[issue.ID] = issue
	}
	return f
}

func (f *fakeIssues) gate(filter model.Filter) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[filter] = ch
	return ch
}

func (f *fakeIssues) ListIssues(ctx context.Context, filter model.Filter) ([]*model.Issue, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, filter)
	gate := f.gates[filter]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*model.Issue
	for _, issue := range f.issues {
		if filter.Status != "" && issue.Status != filter.Status {
			continue
		}
		if filter.Category != "" && issue.Category != filter.Category {
			continue
		}
		if filter.Severity != "" && issue.Severity != filter.Severity {
			continue
		}
		out = append(out, issue.Copy())
	}
	return out, nil
}

func (f *fakeIssues) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listCalls)
}

func (f *fakeIssues) lastFilter() model.Filter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls[len(f.listCalls)-1]
}

func (f *fakeIssues) GetIssue(ctx context.Context, id types.IssueID) (*model.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	issue, ok := f.issues[id]
	if !ok {
		return nil, &client.ServerError{StatusCode: 404, Message: "Issue not found"}
	}
	return issue.Copy(), nil
}

func (f *fakeIssues) CreateIssue(ctx context.Context, req *model.CreateIssueRequest) (*model.CreateIssueResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, req)
	if f.createErr != nil {
		return nil, f.createErr
	}
	issue := &model.Issue{
		ID:       "new-1",
		Category: f.analysis.Category,
		Severity: f.analysis.Severity,
		Status:   types.StatusReported,
		ImageURL: req.ImageURL,
		Location: model.NewPoint(req.Location.Latitude, req.Location.Longitude),
	}
	f.issues[issue.ID] = issue
	a := *f.analysis
	return &model.CreateIssueResult{Issue: issue.Copy(), AIAnalysis: &a}, nil
}

func (f *fakeIssues) UpdateIssue(ctx context.Context, id types.IssueID, update model.IssueUpdate) (*model.Issue, error) {
	if update.Status == nil {
		return nil, goerr.New("only status updates are faked")
	}
	return f.UpdateStatus(ctx, id, *update.Status)
}

func (f *fakeIssues) UpdateStatus(ctx context.Context, id types.IssueID, status types.Status) (*model.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, status)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	issue, ok := f.issues[id]
	if !ok {
		return nil, &client.ServerError{StatusCode: 404, Message: "Issue not found"}
	}
	issue.Status = status
	return issue.Copy(), nil
}

func (f *fakeIssues) DeleteIssue(ctx context.Context, id types.IssueID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.issues, id)
	return nil
}

func (f *fakeIssues) VoteIssue(ctx context.Context, id types.IssueID) (*model.Issue, error) {
	f.mu.Lock()
	gate := f.voteGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.voteErr != nil {
		return nil, f.voteErr
	}
	issue, ok := f.issues[id]
	if !ok {
		return nil, &client.ServerError{StatusCode: 404, Message: "Issue not found"}
	}
	issue.Votes++
	return issue.Copy(), nil
}

func (f *fakeIssues) GetStats(ctx context.Context) (*model.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.stats, nil
}

type fakeUploader struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (u *fakeUploader) UploadImage(ctx context.Context, name, contentType string, r io.Reader) (*model.UploadResult, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls = append(u.calls, contentType)
	if u.err != nil {
		return nil, u.err
	}
	return &model.UploadResult{ImageURL: "http://localhost:5000/uploads/" + name}, nil
}

func (u *fakeUploader) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.calls)
}

type toastRecord struct {
	kind types.ToastKind
	text string
}

type fakeNotifier struct {
	mu     sync.Mutex
	toasts []toastRecord
}

func (n *fakeNotifier) add(kind types.ToastKind, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, toastRecord{kind: kind, text: text})
}

func (n *fakeNotifier) Success(text string) { n.add(types.ToastSuccess, text) }
func (n *fakeNotifier) Error(text string)   { n.add(types.ToastError, text) }
func (n *fakeNotifier) Info(text string)    { n.add(types.ToastInfo, text) }
func (n *fakeNotifier) Warning(text string) { n.add(types.ToastWarning, text) }

func (n *fakeNotifier) all() []toastRecord {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]toastRecord(nil), n.toasts...)
}

func (n *fakeNotifier) last() toastRecord {
	all := n.all()
	if len(all) == 0 {
		return toastRecord{}
	}
	return all[len(all)-1]
}

type fakeNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *fakeNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *fakeNavigator) visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

type fakeSession struct {
	user *model.User
}

func (s *fakeSession) Current(ctx context.Context) *model.User { return s.user }
func (s *fakeSession) IsAdmin(ctx context.Context) bool        { return s.user.IsAdmin() }

// manualClock records scheduled callbacks and fires them on demand
type manualClock struct {
	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (c *manualClock) AfterFunc(d time.Duration, fn func()) func() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	task := &manualTask{delay: d, fn: fn}
	c.tasks = append(c.tasks, task)
	return func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		was := !task.stopped
		task.stopped = true
		return was
	}
}

// fire runs every pending callback and returns their delays
func (c *manualClock) fire() []time.Duration {
	c.mu.Lock()
	var run []*manualTask
	for _, task := range c.tasks {
		if !task.stopped {
			task.stopped = true
			run = append(run, task)
		}
	}
	c.mu.Unlock()

	var delays []time.Duration
	for _, task := range run {
		delays = append(delays, task.delay)
		task.fn()
	}
	return delays
}
