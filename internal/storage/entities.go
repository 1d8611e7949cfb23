package storage

import "time"

type Entry struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

type EntryListFilter struct {
	Prefix string
	Limit  int
	Offset int
}

func paginate(entries []Entry, limit, offset int) []Entry {
	if offset > 0 {
		if offset >= len(entries) {
			return []Entry{}
		}
		entries = entries[offset:]
	}
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}
