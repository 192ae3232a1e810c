package engine

import "math/rand"

// PieceSource decides which piece type spawns next.
type PieceSource interface {
	Next() PieceType
}

// RandomSource picks piece types uniformly at random.
// Two sources built from the same seed produce the same sequence.
type RandomSource struct {
	rng *rand.Rand
}

// NewRandomSource creates a seeded uniform source.
func NewRandomSource(seed int64) *RandomSource {
	return &RandomSource{rng: rand.New(rand.NewSource(seed))}
}

// Next returns a uniformly chosen piece type.
func (r *RandomSource) Next() PieceType {
	return PieceType(r.rng.Intn(PieceCount) + 1)
}

// QueueSource hands out a fixed sequence of piece types, starting over
// once the sequence is exhausted. Useful for scripted games and tests.
type QueueSource struct {
	queue []PieceType
	pos   int
}

// NewQueueSource creates a source cycling through types. Panics if types is
// empty or contains an invalid piece type.
func NewQueueSource(types ...PieceType) *QueueSource {
	if len(types) == 0 {
		panic("engine: queue source needs at least one piece type")
	}
	for _, t := range types {
		mustValid(t)
	}
	return &QueueSource{queue: append([]PieceType(nil), types...)}
}

// Push appends more types to the end of the sequence.
func (q *QueueSource) Push(types ...PieceType) {
	for _, t := range types {
		mustValid(t)
	}
	q.queue = append(q.queue, types...)
}

// Next returns the next queued type.
func (q *QueueSource) Next() PieceType {
	t := q.queue[q.pos%len(q.queue)]
	q.pos++
	return t
}
