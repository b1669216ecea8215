// Package sliceio provides JSON import of sliced scenes and export of
// generated support geometry.
//
// A scene file carries the per-layer model outlines and the per-mesh
// overhang areas the support pipeline consumes:
//
//	{
//	  "layers": [[[[0, 0], [10000, 0], [10000, 10000], [0, 10000]]]],
//	  "meshes": [
//	    {"name": "part", "tree_enable": true, "overhangs": [[...]]}
//	  ]
//	}
//
// Rings are arrays of [x, y] micron pairs; a layer is an array of rings;
// "layers" and each mesh's "overhangs" are arrays indexed by layer, layer
// 0 at the build plate. The exported support format mirrors
// [slicestore.SupportStorage]: per-layer infill parts with their print
// parameters, roof and bottom polygons, plus the generated flag and the
// highest filled layer.
package sliceio

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/treestrut/pkg/errors"
	"github.com/matzehuels/treestrut/pkg/geom"
	"github.com/matzehuels/treestrut/pkg/slicestore"
)

type jsonPoint [2]int64

type jsonScene struct {
	Layers []jsonPolygons `json:"layers"`
	Meshes []jsonMesh     `json:"meshes"`
}

type jsonPolygons [][]jsonPoint

type jsonMesh struct {
	Name       string         `json:"name"`
	TreeEnable bool           `json:"tree_enable"`
	Overhangs  []jsonPolygons `json:"overhangs"`
}

type jsonSupport struct {
	Layers         []jsonSupportLayer `json:"layers"`
	Generated      bool               `json:"generated"`
	MaxFilledLayer int                `json:"max_filled_layer"`
}

type jsonSupportLayer struct {
	InfillParts []jsonInfillPart `json:"infill_parts,omitempty"`
	Roof        jsonPolygons     `json:"roof,omitempty"`
	Bottom      jsonPolygons     `json:"bottom,omitempty"`
}

type jsonInfillPart struct {
	Outline   jsonPolygons `json:"outline"`
	LineWidth int64        `json:"line_width"`
	WallCount int          `json:"wall_count"`
}

func toPolygons(j jsonPolygons) geom.Polygons {
	ps := make(geom.Polygons, len(j))
	for i, ring := range j {
		p := make(geom.Polygon, len(ring))
		for k, pt := range ring {
			p[k] = geom.Pt(pt[0], pt[1])
		}
		ps[i] = p
	}
	return ps
}

func fromPolygons(ps geom.Polygons) jsonPolygons {
	j := make(jsonPolygons, len(ps))
	for i, ring := range ps {
		r := make([]jsonPoint, len(ring))
		for k, pt := range ring {
			r[k] = jsonPoint{pt.X, pt.Y}
		}
		j[i] = r
	}
	return j
}

// ReadScene decodes a sliced scene from r into slice storage. Mesh
// overhang arrays shorter than the layer count are padded with empty
// layers so every mesh indexes safely.
func ReadScene(r io.Reader) (*slicestore.SliceDataStorage, error) {
	var scene jsonScene
	if err := json.NewDecoder(r).Decode(&scene); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode scene")
	}

	storage := slicestore.New(len(scene.Layers))
	for i, layer := range scene.Layers {
		storage.Outlines[i] = toPolygons(layer)
	}
	for _, m := range scene.Meshes {
		mesh := slicestore.NewMesh(m.Name, len(scene.Layers))
		mesh.TreeEnable = m.TreeEnable
		for i, overhang := range m.Overhangs {
			if i >= len(mesh.OverhangAreas) {
				break
			}
			mesh.OverhangAreas[i] = toPolygons(overhang)
		}
		storage.Meshes = append(storage.Meshes, mesh)
	}
	return storage, nil
}

// ImportScene reads a scene from a file path.
func ImportScene(path string) (*slicestore.SliceDataStorage, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open scene %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "open scene %s", path)
	}
	defer f.Close()
	return ReadScene(f)
}

// WriteSupport encodes the generated support geometry of storage as JSON.
func WriteSupport(storage *slicestore.SliceDataStorage, w io.Writer) error {
	out := jsonSupport{
		Layers:         make([]jsonSupportLayer, len(storage.Support.Layers)),
		Generated:      storage.Support.Generated,
		MaxFilledLayer: storage.Support.MaxFilledLayer(),
	}
	for i, layer := range storage.Support.Layers {
		jl := jsonSupportLayer{
			Roof:   fromPolygons(layer.Roof),
			Bottom: fromPolygons(layer.Bottom),
		}
		for _, part := range layer.InfillParts {
			jl.InfillParts = append(jl.InfillParts, jsonInfillPart{
				Outline:   fromPolygons(part.Outline),
				LineWidth: part.LineWidth,
				WallCount: part.WallCount,
			})
		}
		out.Layers[i] = jl
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// ExportSupport writes the generated support geometry to a file path.
func ExportSupport(storage *slicestore.SliceDataStorage, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return WriteSupport(storage, f)
}
