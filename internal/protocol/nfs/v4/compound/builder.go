package compound

import (
	"fmt"
	"strings"

	"github.com/marmos91/nfs4wire/internal/protocol/nfs/v4/types"
)

// Builder assembles a COMPOUND4args one operation at a time. The first
// invalid component is remembered and reported by Build, so calls can be
// chained without checking each step.
type Builder struct {
	tag string
	ops []Op
	err error
}

// NewBuilder starts a minor version 0 compound with the given tag.
func NewBuilder(tag string) *Builder {
	return &Builder{tag: tag}
}

// Add appends an arbitrary operation.
func (b *Builder) Add(op Op) *Builder {
	b.ops = append(b.ops, op)
	return b
}

// PutRootFH sets the current filehandle to the server root.
func (b *Builder) PutRootFH() *Builder {
	return b.Add(&types.PutrootfhArgs{})
}

// PutFH sets the current filehandle.
func (b *Builder) PutFH(fh types.NfsFh4) *Builder {
	return b.Add(&types.PutfhArgs{Object: fh})
}

// Lookup descends into one component. The name is checked the same way a
// server would check it.
func (b *Builder) Lookup(name string) *Builder {
	if status := types.ValidateUTF8Filename(name); status != types.NFS4_OK && b.err == nil {
		b.err = fmt.Errorf("lookup %q: %s", name, types.StatusName(status))
	}
	return b.Add(&types.LookupArgs{Objname: name})
}

// LookupPath adds one LOOKUP per component of a slash-separated path.
// Empty components and "." are skipped; ".." becomes LOOKUPP.
func (b *Builder) LookupPath(path string) *Builder {
	for _, component := range strings.Split(path, "/") {
		switch component {
		case "", ".":
			continue
		case "..":
			b.Add(&types.LookuppArgs{})
		default:
			b.Lookup(component)
		}
	}
	return b
}

// Walk is PUTROOTFH followed by LookupPath.
func (b *Builder) Walk(path string) *Builder {
	return b.PutRootFH().LookupPath(path)
}

// GetFH returns the current filehandle.
func (b *Builder) GetFH() *Builder {
	return b.Add(&types.GetfhArgs{})
}

// Getattr requests the attributes in the bitmap.
func (b *Builder) Getattr(request types.Bitmap4) *Builder {
	return b.Add(&types.GetattrArgs{AttrRequest: request})
}

// Readdir lists the current directory starting at cookie.
func (b *Builder) Readdir(cookie uint64, verf types.Verifier4, dircount, maxcount uint32, request types.Bitmap4) *Builder {
	return b.Add(&types.ReaddirArgs{
		Cookie:      cookie,
		Cookieverf:  verf,
		Dircount:    dircount,
		Maxcount:    maxcount,
		AttrRequest: request,
	})
}

// Read reads count bytes at offset from the current file.
func (b *Builder) Read(stateid types.Stateid4, offset uint64, count uint32) *Builder {
	return b.Add(&types.ReadArgs{Stateid: stateid, Offset: offset, Count: count})
}

// Len returns the number of operations added so far.
func (b *Builder) Len() int {
	return len(b.ops)
}

// Build returns the compound or the first error recorded while building.
func (b *Builder) Build() (*CompoundArgs, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.ops) > MaxCompoundOps {
		return nil, fmt.Errorf("compound has %d ops, limit is %d", len(b.ops), MaxCompoundOps)
	}
	ops := make([]Op, len(b.ops))
	copy(ops, b.ops)
	return &CompoundArgs{
		Tag:          b.tag,
		MinorVersion: types.NFS4_MINOR_VERSION_0,
		Ops:          ops,
	}, nil
}
