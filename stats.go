// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ipset

import "fmt"

// Stats reports a snapshot of a Store's arena and cache occupancy.
type Stats struct {
	Allocated int
	Free      int
	AndCache  int
	OrCache   int
	IteCache  int
}

// Stats returns a snapshot of the store's current occupancy.
func (s *Store) Stats() Stats {
	free := 0
	for idx := s.freeHead; idx >= 0; idx = s.slot(idx).nextFree {
		free++
	}
	return Stats{
		Allocated: int(s.count),
		Free:      free,
		AndCache:  len(s.andCache),
		OrCache:   len(s.orCache),
		IteCache:  len(s.iteCache),
	}
}

func (st Stats) String() string {
	used := st.Allocated - st.Free
	ratio := 0.0
	if st.Allocated > 0 {
		ratio = 100 * float64(used) / float64(st.Allocated)
	}
	return fmt.Sprintf(
		"Allocated:  %d\nFree:       %d\nUsed:       %d  (%.3g %%)\nAND cache:  %d\nOR cache:   %d\nITE cache:  %d",
		st.Allocated, st.Free, used, ratio, st.AndCache, st.OrCache, st.IteCache,
	)
}

// PrintStats writes a textual summary of store's statistics to standard
// output.
func (s *Store) PrintStats() {
	fmt.Println("==============")
	fmt.Println(s.Stats())
	fmt.Println("==============")
}
