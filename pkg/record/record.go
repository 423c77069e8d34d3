package record

import (
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/internal/hashutil"
	"github.com/arthur-debert/synctree/pkg/types"
	"github.com/beevik/etree"
)

// Extension is the default file extension of serialized records.
const Extension = ".config"

var kindTags = map[types.EntityKind]string{
	types.KindContentType: "ContentType",
	types.KindMediaType:   "MediaType",
	types.KindDataType:    "DataType",
	types.KindMemberType:  "MemberType",
}

// TagFor returns the root element name used for a kind.
func TagFor(kind types.EntityKind) string {
	return kindTags[kind]
}

// KindForTag maps a root element name back to its kind.
func KindForTag(tag string) (types.EntityKind, bool) {
	for k, t := range kindTags {
		if t == tag {
			return k, true
		}
	}
	return "", false
}

// Record is the decoded form of one entity file.
type Record struct {
	Kind       types.EntityKind
	Key        string
	Alias      string
	Name       string
	Level      int
	ParentKey  string
	Folder     string
	Properties map[string]string
}

// FolderPath splits Folder into its container names.
func (r *Record) FolderPath() []string {
	var parts []string
	for _, p := range strings.Split(r.Folder, "/") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Decode fully interprets a node.
func Decode(n *Node) (*Record, error) {
	kind, ok := KindForTag(n.Root.Tag)
	if !ok {
		return nil, errors.Newf(errors.ErrParse, "record %s has unknown root element <%s>", n.File, n.Root.Tag)
	}

	level, err := n.Level()
	if err != nil {
		return nil, err
	}

	r := &Record{
		Kind:       kind,
		Key:        n.Root.SelectAttrValue("Key", ""),
		Alias:      n.Root.SelectAttrValue("Alias", ""),
		Level:      level,
		Properties: make(map[string]string),
	}
	if r.Key == "" {
		return nil, errors.Newf(errors.ErrParse, "record %s has no Key", n.File)
	}

	if el := n.Root.SelectElement("Name"); el != nil {
		r.Name = strings.TrimSpace(el.Text())
	}
	if r.Name == "" {
		return nil, errors.Newf(errors.ErrParse, "record %s has no Name", n.File)
	}
	if el := n.Root.SelectElement("Parent"); el != nil {
		r.ParentKey = el.SelectAttrValue("Key", "")
	}
	if el := n.Root.SelectElement("Folder"); el != nil {
		r.Folder = path.Clean("/" + strings.TrimSpace(el.Text()))[1:]
	}
	if props := n.Root.SelectElement("Properties"); props != nil {
		for _, p := range props.SelectElements("Property") {
			name := p.SelectAttrValue("Name", "")
			if name == "" {
				continue
			}
			r.Properties[name] = p.Text()
		}
	}

	return r, nil
}

// Encode renders a record as an indented XML document. Properties are
// written in name order so equal records encode to equal bytes.
func Encode(r *Record) ([]byte, error) {
	tag := TagFor(r.Kind)
	if tag == "" {
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown entity kind %q", r.Kind)
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	root := doc.CreateElement(tag)
	root.CreateAttr("Key", r.Key)
	if r.Alias != "" {
		root.CreateAttr("Alias", r.Alias)
	}
	root.CreateAttr(LevelAttr, strconv.Itoa(r.Level))

	root.CreateElement("Name").SetText(r.Name)
	if r.ParentKey != "" {
		root.CreateElement("Parent").CreateAttr("Key", r.ParentKey)
	}
	if r.Folder != "" {
		root.CreateElement("Folder").SetText(r.Folder)
	}

	if len(r.Properties) > 0 {
		names := make([]string, 0, len(r.Properties))
		for name := range r.Properties {
			names = append(names, name)
		}
		sort.Strings(names)

		props := root.CreateElement("Properties")
		for _, name := range names {
			p := props.CreateElement("Property")
			p.CreateAttr("Name", name)
			p.SetText(r.Properties[name])
		}
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

// Checksum is the checksum of the record's canonical encoding.
func Checksum(r *Record) (string, error) {
	data, err := Encode(r)
	if err != nil {
		return "", err
	}
	return hashutil.BytesChecksum(data), nil
}
