package core

// IsDuplicateOfLast reports whether candidate repeats the last row of
// snapshot on category, type, subtype, bearing number and application.
// Earlier rows are never consulted, so a bearing may legitimately recur
// later in a session. An empty snapshot never matches.
func IsDuplicateOfLast(candidate Row, snapshot []Row) bool {
	if len(snapshot) == 0 {
		return false
	}
	last := snapshot[len(snapshot)-1]
	return last.Category == candidate.Category &&
		last.Type == candidate.Type &&
		last.Subtype == candidate.Subtype &&
		last.BearingNumber == candidate.BearingNumber &&
		last.Application == candidate.Application
}
