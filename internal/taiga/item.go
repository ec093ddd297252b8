package taiga

// ItemKey is what follow-up requests need to know about a work item.
type ItemKey struct {
	ID          int
	Ref         int
	Version     int
	Project     int
	ProjectSlug string
}

func itemKey(id, ref, version, project int, p *ProjectExtraInfo) ItemKey {
	k := ItemKey{ID: id, Ref: ref, Version: version, Project: project}
	if p != nil {
		k.ProjectSlug = p.Slug
	}
	return k
}

func (e Epic) Key() ItemKey {
	return itemKey(e.ID, e.Ref, e.Version, e.Project, e.ProjectExtraInfo)
}

func (i Issue) Key() ItemKey {
	return itemKey(i.ID, i.Ref, i.Version, i.Project, i.ProjectExtraInfo)
}

func (t Task) Key() ItemKey {
	return itemKey(t.ID, t.Ref, t.Version, t.Project, t.ProjectExtraInfo)
}

func (u UserStory) Key() ItemKey {
	return itemKey(u.ID, u.Ref, u.Version, u.Project, u.ProjectExtraInfo)
}
