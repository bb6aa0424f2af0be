package mapsnapengine

import "sync"

// RunLoop is the private task queue every map instance owns. The engine
// schedules its internal async work on it (style fetches, tile fetches);
// public operations pump it on the calling goroutine until the queue
// settles, so the instance stays confined to a single logical thread.
type RunLoop struct {
	mu     sync.Mutex
	tasks  []func()
	closed bool
}

func NewRunLoop() *RunLoop {
	return &RunLoop{}
}

// Schedule queues a task. Tasks run in FIFO order and may schedule
// further tasks. Scheduling on a closed loop drops the task.
func (l *RunLoop) Schedule(task func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	l.tasks = append(l.tasks, task)
}

// RunUntilIdle runs queued tasks on the calling goroutine until none are
// left, including tasks scheduled by the tasks themselves.
func (l *RunLoop) RunUntilIdle() {
	for {
		task := l.pop()
		if task == nil {
			return
		}

		task()
	}
}

func (l *RunLoop) pop() func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.tasks) == 0 {
		return nil
	}

	task := l.tasks[0]
	l.tasks = l.tasks[1:]

	return task
}

// PendingTasks reports how many tasks are queued.
func (l *RunLoop) PendingTasks() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.tasks)
}

// Close drops any queued tasks and rejects new ones. The owning instance
// closes the loop last, after the frontend and map are released.
func (l *RunLoop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	l.tasks = nil
}
