package types

import (
	"fmt"
	"sort"
)

// RootID is the parent id used to address the top of a kind's hierarchy.
// Any ParentID <= 0 denotes a root entity.
const RootID = -1

// EntityKind identifies which family of tree entities a handler manages.
type EntityKind string

const (
	KindContentType EntityKind = "contenttype"
	KindMediaType   EntityKind = "mediatype"
	KindDataType    EntityKind = "datatype"
	KindMemberType  EntityKind = "membertype"
)

// AllKinds returns every supported kind in import order.
func AllKinds() []EntityKind {
	return []EntityKind{KindDataType, KindContentType, KindMediaType, KindMemberType}
}

// ParseKind converts a string into a known EntityKind.
func ParseKind(s string) (EntityKind, error) {
	for _, k := range AllKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown entity kind %q", s)
}

// Entity is a node of the live hierarchy held by an entity store.
type Entity struct {
	ID         int               `json:"id" yaml:"id" bson:"_id"`
	Key        string            `json:"key" yaml:"key" bson:"key"`
	Name       string            `json:"name" yaml:"name" bson:"name"`
	Alias      string            `json:"alias,omitempty" yaml:"alias,omitempty" bson:"alias,omitempty"`
	ParentID   int               `json:"parentId" yaml:"parentId" bson:"parent_id"`
	Kind       EntityKind        `json:"kind" yaml:"kind" bson:"kind"`
	Container  bool              `json:"container,omitempty" yaml:"container,omitempty" bson:"container"`
	Level      int               `json:"level" yaml:"level" bson:"level"`
	Properties map[string]string `json:"properties,omitempty" yaml:"properties,omitempty" bson:"properties,omitempty"`
	Checksum   string            `json:"checksum,omitempty" yaml:"checksum,omitempty" bson:"checksum,omitempty"`
}

// IsRoot reports whether the entity has no parent.
func (e *Entity) IsRoot() bool {
	return e.ParentID <= 0
}

// Clone returns a deep copy so callers never share a store's map.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	c := *e
	if e.Properties != nil {
		c.Properties = make(map[string]string, len(e.Properties))
		for k, v := range e.Properties {
			c.Properties[k] = v
		}
	}
	return &c
}

// PropertyNames returns the property names in sorted order.
func (e *Entity) PropertyNames() []string {
	names := make([]string, 0, len(e.Properties))
	for k := range e.Properties {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
