package offsetset

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// go test -bench=. -cpuprofile profile.out -benchtime=2x
// go tool pprof -http="localhost:8000" pprofbin ./profile.out

func BenchmarkInsert(b *testing.B) {
	b.StopTimer()
	b.ResetTimer()

	requireT := require.New(b)

	items := make([][48]byte, 30000)
	for i := 0; i < len(items); i++ {
		_, err := rand.Read(items[i][:])
		requireT.NoError(err)
	}

	for bi := 0; bi < b.N; bi++ {
		s := New[byte]()

		b.StartTimer()
		for i := 0; i < len(items); i++ {
			// every item is inserted twice so the deduplicating path is
			// exercised as much as the appending one
			s.Insert(items[i][:])
			s.Insert(items[i][:])
		}
		b.StopTimer()
	}
}
