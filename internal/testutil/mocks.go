package testutil

import (
	"fmt"
	"sync"
)

// SequenceSource — детерминированный источник случайных чисел для тестов
// сэмплера. Возвращает заранее заданные значения по кругу; каждое значение
// приводится к диапазону [0, n).
type SequenceSource struct {
	mu     sync.Mutex
	values []int
	pos    int
}

// NewSequenceSource создаёт источник, выдающий values по кругу.
func NewSequenceSource(values ...int) *SequenceSource {
	if len(values) == 0 {
		panic("testutil.NewSequenceSource: no values")
	}
	return &SequenceSource{values: values}
}

// IntN возвращает следующее значение последовательности по модулю n.
func (s *SequenceSource) IntN(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("testutil.SequenceSource.IntN: invalid n %d", n))
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.values[s.pos%len(s.values)]
	s.pos++
	return ((v % n) + n) % n
}

// Calls возвращает число вызовов IntN.
func (s *SequenceSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}
