package upload

// Notifier receives scheduler progress. OnRejected is called at most once per
// run; OnComplete exactly once for every run with at least one accepted
// file. OnTaskSettled is called from the scheduler goroutine after each
// batch, in input order.
type Notifier interface {
	OnRejected(n Notice)
	OnBatchStart(batch, size int)
	OnTaskSettled(t Task)
	OnComplete(s Summary)
}

// NoOpNotifier ignores all notifications.
type NoOpNotifier struct{}

// OnRejected implements Notifier.
func (NoOpNotifier) OnRejected(Notice) {}

// OnBatchStart implements Notifier.
func (NoOpNotifier) OnBatchStart(int, int) {}

// OnTaskSettled implements Notifier.
func (NoOpNotifier) OnTaskSettled(Task) {}

// OnComplete implements Notifier.
func (NoOpNotifier) OnComplete(Summary) {}
