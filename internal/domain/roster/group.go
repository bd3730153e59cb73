package roster

import (
	"errors"
	"fmt"
)

// ErrMixedGroup marks a group whose records do not all share the group key.
// Mixed identity is a caller-contract violation and is never repaired.
var ErrMixedGroup = errors.New("group contains records with mixed identity")

// GroupRecords partitions a flat record list into groups by identity key.
// Group order follows first appearance in the input; record order within a
// group is input order.
func GroupRecords(records []Record) []RecordGroup {
	idx := make(map[GroupKey]int)
	var groups []RecordGroup
	for _, r := range records {
		key := KeyOf(r)
		i, ok := idx[key]
		if !ok {
			i = len(groups)
			idx[key] = i
			groups = append(groups, RecordGroup{Key: key})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// Validate confirms every record carries the group's key. Groups built by
// GroupRecords hold this by construction; externally assembled groups may
// not.
func (g RecordGroup) Validate() error {
	for i, r := range g.Records {
		if KeyOf(r) != g.Key {
			return fmt.Errorf("%w: record %d is %s, group is %s", ErrMixedGroup, i, KeyOf(r), g.Key)
		}
	}
	return nil
}
