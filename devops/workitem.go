package devops

// WorkItem is one tracked item in the release, with its resolved children.
type WorkItem struct {
	ID                 int
	Type               string
	State              string
	Title              string
	Parent             int
	CommentCount       int
	Description        string
	ReproSteps         string
	AcceptanceCriteria string
	Tags               []string
	URL                string
	Icon               string
	Comments           []string
	Children           []*WorkItem
	ChildrenByType     []*WorkItemChildren
}

// WorkItemChildren groups sibling work items of the same type.
type WorkItemChildren struct {
	Type  string
	Icon  string
	Items []*WorkItem
}

// GroupByType partitions items by work item type, preserving the order in
// which each type first appears. The group icon is taken from the first
// item of the type.
func GroupByType(items []*WorkItem) []*WorkItemChildren {
	var groups []*WorkItemChildren
	index := make(map[string]*WorkItemChildren)
	for _, item := range items {
		group, ok := index[item.Type]
		if !ok {
			group = &WorkItemChildren{Type: item.Type, Icon: item.Icon}
			index[item.Type] = group
			groups = append(groups, group)
		}
		group.Items = append(group.Items, item)
	}
	return groups
}

// BuildTree links items to their parents and returns the root items
// grouped by type. Items whose parent is unknown are treated as roots.
func BuildTree(items []*WorkItem) []*WorkItemChildren {
	byID := make(map[int]*WorkItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	var roots []*WorkItem
	for _, item := range items {
		if parent, ok := byID[item.Parent]; ok && item.Parent != item.ID {
			parent.Children = append(parent.Children, item)
		} else {
			roots = append(roots, item)
		}
	}

	for _, item := range items {
		if len(item.Children) > 0 {
			item.ChildrenByType = GroupByType(item.Children)
		}
	}

	return GroupByType(roots)
}
