package ledger

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/flashmath/internal/problemgen"
	"github.com/abhisek/flashmath/internal/store"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestLedger() (*Ledger, *store.MemoryKV, *logtest.Hook) {
	kv := store.NewMemoryKV()
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	clock := &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
	return New(kv, log, clock.Now), kv, hook
}

func question(op problemgen.Operation, a, b, c int) problemgen.Question {
	return problemgen.Question{
		ID:            "q1",
		Level:         problemgen.Level1,
		Operation:     op,
		Operand1:      a,
		Operand2:      b,
		CorrectAnswer: c,
		Choices:       []int{c, c + 1, c + 2, c + 3},
	}
}

func TestUpsertCreatesThenIncrements(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newTestLedger()
	q := question(problemgen.OpAdd, 3, 5, 8)

	rec, err := l.Upsert(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.MissCount)
	assert.Len(t, rec.Timestamps, 1)
	assert.Equal(t, "q1", rec.QuestionID)

	// Same key from another session with a different id.
	again := q
	again.ID = "q7"
	rec, err = l.Upsert(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.MissCount)
	assert.Len(t, rec.Timestamps, 2)
	assert.Equal(t, "q1", rec.QuestionID, "first snapshot is kept")
	assert.Less(t, rec.Timestamps[0], rec.Timestamps[1])

	n, err := l.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOperandOrderIsDistinct(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newTestLedger()

	_, err := l.Upsert(ctx, question(problemgen.OpAdd, 3, 5, 8))
	require.NoError(t, err)
	_, err = l.Upsert(ctx, question(problemgen.OpAdd, 5, 3, 8))
	require.NoError(t, err)

	n, _ := l.Count(ctx)
	assert.Equal(t, 2, n)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	l, kv, _ := newTestLedger()
	q := question(problemgen.OpMultiply, 6, 7, 42)

	// Absent: no-op, nothing written.
	require.NoError(t, l.Remove(ctx, q))
	assert.Empty(t, kv.Keys())

	_, err := l.Upsert(ctx, q)
	require.NoError(t, err)
	require.NoError(t, l.Remove(ctx, q))

	rec, err := l.Get(ctx, q)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestAllKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newTestLedger()

	qs := []problemgen.Question{
		question(problemgen.OpSubtract, 40, 2, 38),
		question(problemgen.OpAdd, 1, 1, 2),
		question(problemgen.OpDivide, 81, 9, 9),
		question(problemgen.OpMultiply, 12, 12, 144),
	}
	for _, q := range qs {
		_, err := l.Upsert(ctx, q)
		require.NoError(t, err)
	}
	// A repeat miss does not move the record.
	_, err := l.Upsert(ctx, qs[0])
	require.NoError(t, err)
	require.NoError(t, l.Remove(ctx, qs[2]))

	all, err := l.All(ctx)
	require.NoError(t, err)
	var keys []string
	for _, r := range all {
		keys = append(keys, r.Question.Key())
	}
	assert.Equal(t, []string{"subtract-40-2", "add-1-1", "multiply-12-12"}, keys)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	l, kv, _ := newTestLedger()
	_, err := l.Upsert(ctx, question(problemgen.OpAdd, 2, 2, 4))
	require.NoError(t, err)

	require.NoError(t, l.Clear(ctx))
	assert.Empty(t, kv.Keys())
	n, _ := l.Count(ctx)
	assert.Equal(t, 0, n)
}

func TestMissingIDAndChoices(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newTestLedger()
	q := problemgen.Question{Level: problemgen.Level2, Operation: problemgen.OpAdd, Operand1: 2, Operand2: 9, CorrectAnswer: 11}

	rec, err := l.Upsert(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, "add-2-9", rec.QuestionID)
	assert.Equal(t, "add-2-9", rec.Question.ID)
	assert.NotNil(t, rec.Question.Choices)
	assert.Empty(t, rec.Question.Choices)

	all, err := l.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestCorruptLedgerIsEmpty(t *testing.T) {
	ctx := context.Background()
	l, kv, hook := newTestLedger()
	require.NoError(t, kv.Set(ctx, StorageKey, `["not", "an", "object"]`))

	all, err := l.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	// Writing over it recovers.
	_, err = l.Upsert(ctx, question(problemgen.OpAdd, 1, 2, 3))
	require.NoError(t, err)
	n, _ := l.Count(ctx)
	assert.Equal(t, 1, n)
}

func TestInvalidRecordDropped(t *testing.T) {
	ctx := context.Background()
	l, kv, hook := newTestLedger()
	require.NoError(t, kv.Set(ctx, StorageKey, `{
		"add-1-1": {"questionId":"q1","question":{"id":"q1","level":1,"operation":"add","operand1":1,"operand2":1,"correctAnswer":3,"choices":[]},"missCount":1,"timestamps":[1]},
		"add-2-2": {"questionId":"q2","question":{"id":"q2","level":1,"operation":"add","operand1":2,"operand2":2,"correctAnswer":4,"choices":[]},"missCount":2,"timestamps":[1]},
		"add-3-3": {"questionId":"q3","question":{"id":"q3","level":1,"operation":"add","operand1":3,"operand2":3,"correctAnswer":6,"choices":[]},"missCount":1,"timestamps":[1]}
	}`))

	all, err := l.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "q3", all[0].QuestionID)
	assert.Len(t, hook.AllEntries(), 2)
}

func TestEntriesJSONOrder(t *testing.T) {
	var e entries
	e.set("b", Record{QuestionID: "b"})
	e.set("a", Record{QuestionID: "a"})
	e.set("c", Record{QuestionID: "c"})

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var back entries
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"b", "a", "c"}, back.keys)
	assert.Equal(t, "a", back.byKey["a"].QuestionID)

	require.Error(t, json.Unmarshal([]byte(`[1]`), &back))
}

func TestUpsertThenRemoveRestoresLedger(t *testing.T) {
	ctx := context.Background()
	l, kv, _ := newTestLedger()
	_, err := l.Upsert(ctx, question(problemgen.OpAdd, 10, 20, 30))
	require.NoError(t, err)
	before, _, _ := kv.Get(ctx, StorageKey)

	q := question(problemgen.OpSubtract, 10, 20, -10)
	_, err = l.Upsert(ctx, q)
	require.NoError(t, err)
	require.NoError(t, l.Remove(ctx, q))

	after, _, _ := kv.Get(ctx, StorageKey)
	assert.JSONEq(t, before, after)
}

func TestTwoMissesOneRecord(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newTestLedger()
	q := question(problemgen.OpMultiply, 3, 4, 12)

	for i := 0; i < 2; i++ {
		_, err := l.Upsert(ctx, q)
		require.NoError(t, err)
	}
	all, err := l.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 2, all[0].MissCount)
	assert.Len(t, all[0].Timestamps, 2)
}

func TestRecordUnderWrongKeyDropped(t *testing.T) {
	ctx := context.Background()
	l, kv, hook := newTestLedger()
	require.NoError(t, kv.Set(ctx, StorageKey, `{
		"add-9-9": {"questionId":"q1","question":{"id":"q1","level":1,"operation":"add","operand1":4,"operand2":5,"correctAnswer":9,"choices":[]},"missCount":1,"timestamps":[1]},
		"add-2-2": {"questionId":"q2","question":{"id":"q2","level":1,"operation":"add","operand1":2,"operand2":2,"correctAnswer":4,"choices":[]},"missCount":1,"timestamps":[1]}
	}`))

	all, err := l.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "add-2-2", all[0].Question.Key())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	// The remaining record can still be removed by its question.
	require.NoError(t, l.Remove(ctx, all[0].Question))
	n, _ := l.Count(ctx)
	assert.Zero(t, n)
}
