package service

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"

	"github.com/vietanh2810/lottery-api/internal/domain"
)

// Allocator produces a uniformly random matching between prize instances and ballots.
type Allocator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewAllocator uses rng when given, otherwise a generator seeded from crypto/rand.
func NewAllocator(rng *rand.Rand) *Allocator {
	if rng == nil {
		rng = rand.New(rand.NewSource(cryptoSeed()))
	}

	return &Allocator{
		rng: rng,
	}
}

func cryptoSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// ExpandPrizes returns one entry per prize instance, ordered by descending amount then creation.
func ExpandPrizes(prizes []domain.Prize) []domain.Prize {
	sorted := make([]domain.Prize, len(prizes))
	copy(sorted, prizes)
	domain.SortPrizes(sorted)

	var pool []domain.Prize
	for _, p := range sorted {
		for i := 0; i < p.Count; i++ {
			pool = append(pool, p)
		}
	}

	return pool
}

// Allocate shuffles the expanded prize pool and the ballots independently and pairs
// them positionally. min(instances, ballots) ballots receive exactly one prize.
func (a *Allocator) Allocate(prizes []domain.Prize, ballots []domain.Ballot) []domain.Allocation {
	pool := ExpandPrizes(prizes)
	ids := make([]uint, len(ballots))
	for i, b := range ballots {
		ids[i] = b.ID
	}

	a.mu.Lock()
	a.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	a.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	a.mu.Unlock()

	n := len(pool)
	if len(ids) < n {
		n = len(ids)
	}

	allocations := make([]domain.Allocation, 0, n)
	for i := 0; i < n; i++ {
		allocations = append(allocations, domain.Allocation{BallotID: ids[i], PrizeID: pool[i].ID})
	}

	return allocations
}
