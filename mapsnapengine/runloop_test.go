package mapsnapengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_RunLoop_runsTasksInFIFOOrder(t *testing.T) {
	loop := NewRunLoop()

	var order []int
	loop.Schedule(func() { order = append(order, 1) })
	loop.Schedule(func() { order = append(order, 2) })
	loop.Schedule(func() { order = append(order, 3) })

	require.Equal(t, 3, loop.PendingTasks())
	loop.RunUntilIdle()

	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 0, loop.PendingTasks())
}

func Test_RunLoop_tasksMayScheduleMoreTasks(t *testing.T) {
	loop := NewRunLoop()

	var order []string
	loop.Schedule(func() {
		order = append(order, "fetch")
		loop.Schedule(func() {
			order = append(order, "parse")
			loop.Schedule(func() {
				order = append(order, "apply")
			})
		})
	})

	loop.RunUntilIdle()

	assert.Equal(t, []string{"fetch", "parse", "apply"}, order)
}

func Test_RunLoop_idleRunIsANoop(t *testing.T) {
	loop := NewRunLoop()
	loop.RunUntilIdle()
	assert.Equal(t, 0, loop.PendingTasks())
}

func Test_RunLoop_closeDropsQueuedAndRejectsNewTasks(t *testing.T) {
	loop := NewRunLoop()

	ran := false
	loop.Schedule(func() { ran = true })
	loop.Close()

	loop.Schedule(func() { ran = true })
	loop.RunUntilIdle()

	assert.False(t, ran)
	assert.Equal(t, 0, loop.PendingTasks())
}
