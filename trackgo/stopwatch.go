package trackgo

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Watch is the process-wide stopwatch. The solvers charge their search time
// to named buckets; callers can read or reset it between solves.
var Watch Stopwatch

type Stopwatch struct {
	Buckets      map[string]time.Duration
	BucketStarts map[string]time.Time
}

func init() {
	Watch.Reset()
}

func (s *Stopwatch) Reset() {
	s.Buckets = make(map[string]time.Duration)
	s.BucketStarts = make(map[string]time.Time)
}

func (s *Stopwatch) Start(b string) {
	s.BucketStarts[b] = time.Now()
	if _, ok := s.Buckets[b]; !ok {
		s.Buckets[b] = 0
	}
}

func (s *Stopwatch) Stop(b string) {
	start, ok := s.BucketStarts[b]
	if !ok {
		return
	}
	s.Buckets[b] += time.Since(start)
	delete(s.BucketStarts, b)
}

// Elapsed returns the accumulated time charged to bucket b.
func (s *Stopwatch) Elapsed(b string) time.Duration {
	return s.Buckets[b]
}

// Results lists every bucket and its total in seconds, sorted by name so
// repeated runs print comparably.
func (s *Stopwatch) Results() string {
	names := make([]string, 0, len(s.Buckets))
	for k := range s.Buckets {
		names = append(names, k)
	}
	sort.Strings(names)
	var sb strings.Builder
	for _, k := range names {
		fmt.Fprintf(&sb, "%s: %.4f\n", k, s.Buckets[k].Seconds())
	}
	return sb.String()
}
