package scanner

import "imagecompare/types"

// groupID separates families whose numeric fields happen to coincide
type groupID struct {
	family string
	key    types.ParameterKey
}

// Index groups parsed filenames by family and parameter key, remembering
// the order in which groups were first seen.
type Index struct {
	order  []groupID
	groups map[groupID]*types.ImageGroup
}

// NewIndex creates an empty grouping index
func NewIndex() *Index {
	return &Index{
		groups: make(map[groupID]*types.ImageGroup),
	}
}

// Add records path under the parsed family, key and tag. A later file with
// the same family, key and tag replaces the earlier one.
func (ix *Index) Add(name types.ParsedName, path string) {
	id := groupID{family: name.Family, key: name.Key}
	group, ok := ix.groups[id]
	if !ok {
		group = &types.ImageGroup{
			Key:    name.Key,
			Family: name.Family,
			Files:  make(map[types.DatatypeTag]string),
		}
		ix.groups[id] = group
		ix.order = append(ix.order, id)
	}
	group.Files[name.Tag] = path
}

// Groups returns all groups in first-seen order
func (ix *Index) Groups() []*types.ImageGroup {
	out := make([]*types.ImageGroup, 0, len(ix.order))
	for _, id := range ix.order {
		out = append(out, ix.groups[id])
	}
	return out
}

// Len returns the number of distinct groups
func (ix *Index) Len() int {
	return len(ix.order)
}
