package record

import (
	"strconv"

	"github.com/arthur-debert/synctree/pkg/errors"
	"github.com/arthur-debert/synctree/pkg/filesystem"
	"github.com/beevik/etree"
)

// LevelAttr is the root attribute holding an entity's hierarchy depth.
const LevelAttr = "Level"

// Node is a parsed record file. Only the root element is interpreted
// until Decode is called.
type Node struct {
	File string
	Root *etree.Element
}

// LoadNode opens and parses the record at path. It fails with
// ErrNotFound when the file is missing and ErrParse when it is not a
// well-formed XML document.
func LoadNode(files *filesystem.FileService, path string) (*Node, error) {
	if err := files.EnsureFileExists(path); err != nil {
		return nil, err
	}

	r, err := files.OpenRead(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = r.Close()
	}()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, errors.Wrapf(err, errors.ErrParse, "cannot parse record %s", path)
	}

	root := doc.Root()
	if root == nil {
		return nil, errors.Newf(errors.ErrParse, "record %s has no root element", path)
	}

	return &Node{File: path, Root: root}, nil
}

// Level returns the hierarchy depth stored on the root element.
func (n *Node) Level() (int, error) {
	raw := n.Root.SelectAttrValue(LevelAttr, "")
	if raw == "" {
		return 0, errors.Newf(errors.ErrParse, "record %s has no %s attribute", n.File, LevelAttr)
	}

	level, err := strconv.Atoi(raw)
	if err != nil || level < 0 {
		return 0, errors.Newf(errors.ErrParse, "record %s has invalid level %q", n.File, raw).
			WithDetail("file", n.File)
	}
	return level, nil
}

// LevelOf loads the record at path and returns its level.
func LevelOf(files *filesystem.FileService, path string) (int, error) {
	node, err := LoadNode(files, path)
	if err != nil {
		return 0, err
	}
	return node.Level()
}
