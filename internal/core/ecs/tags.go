package ecs

import (
	"fmt"
	"slices"
)

// Tag and group indices. Both are insert-if-absent: tagging or grouping again
// never overwrites an existing forward or reverse entry, so a re-tag leaves
// the first association in place until RemoveEntityTag/RemoveEntityGroup.

type tagIndex struct {
	entityPerTag map[string]EntityID
	tagPerEntity map[EntityID]string
}

type groupIndex struct {
	entitiesPerGroup map[string]map[EntityID]struct{}
	groupPerEntity   map[EntityID]string
}

func newTagIndex() *tagIndex {
	return &tagIndex{
		entityPerTag: make(map[string]EntityID),
		tagPerEntity: make(map[EntityID]string),
	}
}

func newGroupIndex() *groupIndex {
	return &groupIndex{
		entitiesPerGroup: make(map[string]map[EntityID]struct{}),
		groupPerEntity:   make(map[EntityID]string),
	}
}

// TagEntity binds tag to id.
func (r *Registry) TagEntity(id EntityID, tag string) {
	if _, ok := r.tags.entityPerTag[tag]; !ok {
		r.tags.entityPerTag[tag] = id
	}
	if _, ok := r.tags.tagPerEntity[id]; !ok {
		r.tags.tagPerEntity[id] = tag
	}
}

// EntityHasTag reports whether id is the entity bound to tag and tag is id's tag.
func (r *Registry) EntityHasTag(id EntityID, tag string) bool {
	if r.tags.tagPerEntity[id] != tag {
		return false
	}
	owner, ok := r.tags.entityPerTag[tag]
	return ok && owner == id
}

func (r *Registry) GetEntityByTag(tag string) (EntityID, error) {
	id, ok := r.tags.entityPerTag[tag]
	if !ok {
		return 0, fmt.Errorf("tag %q: %w", tag, ErrUnknownTag)
	}
	return id, nil
}

// RemoveEntityTag drops id's tag. The tag's forward entry is dropped only if
// it still points at id.
func (r *Registry) RemoveEntityTag(id EntityID) {
	tag, ok := r.tags.tagPerEntity[id]
	if !ok {
		return
	}
	if owner, ok := r.tags.entityPerTag[tag]; ok && owner == id {
		delete(r.tags.entityPerTag, tag)
	}
	delete(r.tags.tagPerEntity, id)
}

// GroupEntity adds id to group.
func (r *Registry) GroupEntity(id EntityID, group string) {
	members, ok := r.groups.entitiesPerGroup[group]
	if !ok {
		members = make(map[EntityID]struct{})
		r.groups.entitiesPerGroup[group] = members
	}
	members[id] = struct{}{}
	if _, ok := r.groups.groupPerEntity[id]; !ok {
		r.groups.groupPerEntity[id] = group
	}
}

func (r *Registry) EntityBelongsToGroup(id EntityID, group string) bool {
	_, ok := r.groups.entitiesPerGroup[group][id]
	return ok
}

// GetEntitiesByGroup returns the members of group in ascending id order.
func (r *Registry) GetEntitiesByGroup(group string) ([]EntityID, error) {
	members, ok := r.groups.entitiesPerGroup[group]
	if !ok {
		return nil, fmt.Errorf("group %q: %w", group, ErrUnknownGroup)
	}
	ids := make([]EntityID, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// RemoveEntityGroup removes id from the group recorded for it.
func (r *Registry) RemoveEntityGroup(id EntityID) {
	group, ok := r.groups.groupPerEntity[id]
	if !ok {
		return
	}
	if members, ok := r.groups.entitiesPerGroup[group]; ok {
		delete(members, id)
	}
	delete(r.groups.groupPerEntity, id)
}
