package loader

import (
	"OceanMirror/internal/logger"
	"OceanMirror/internal/renderer"
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// MetadataTexture is the Metadata key holding the diffuse texture path
// named by an OBJ's material library.
const MetadataTexture = "texture"

type FaceVertex struct {
	VertexIdx   int32
	TexCoordIdx int32
	NormalIdx   int32
}

// LoadModel reads a Wavefront OBJ file into a single-material model. Face
// corners with distinct v/vt/vn triplets get their own interleaved vertex.
func LoadModel(filename string, recalculateNormals bool) (*renderer.Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var positions, texCoords, normals []float32
	var corners []FaceVertex
	var materials map[string]*MaterialDef
	material := &MaterialDef{Material: *renderer.DefaultMaterial}
	materialChosen := false

	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "v":
			vertex, err := parseFloats(parts[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: vertex: %w", filename, line, err)
			}
			positions = append(positions, vertex...)
		case "vn":
			normal, err := parseFloats(parts[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: normal: %w", filename, line, err)
			}
			normals = append(normals, normal...)
		case "vt":
			texCoord, err := parseFloats(parts[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: texture coordinate: %w", filename, line, err)
			}
			texCoords = append(texCoords, texCoord...)
		case "f":
			face, err := parseFace(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("%s:%d: face: %w", filename, line, err)
			}
			corners = append(corners, face...)
		case "mtllib":
			if len(parts) < 2 {
				continue
			}
			materials, err = LoadMaterials(filepath.Join(filepath.Dir(filename), parts[1]))
			if err != nil {
				logger.Log.Warn("Material library not loaded", zap.String("obj", filename), zap.Error(err))
			}
		case "usemtl":
			// Only the first material is kept; the renderer draws one per model.
			if len(parts) >= 2 && !materialChosen {
				if m, ok := materials[parts[1]]; ok {
					material = m
					materialChosen = true
				} else {
					logger.Log.Debug("Material not found", zap.String("material", parts[1]))
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(corners) == 0 {
		return nil, fmt.Errorf("%s: no faces", filename)
	}

	vertices, uvs, vertexNormals, indices, err := unify(corners, positions, texCoords, normals)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if recalculateNormals || len(normals) == 0 {
		vertexNormals = RecalculateNormals(vertices, indices)
	}

	model := renderer.CreateModelWithAttributes(vertices, uvs, vertexNormals, indices)
	model.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	m := material.Material
	model.Material = &m
	if material.TexturePath != "" {
		model.Metadata = map[string]interface{}{MetadataTexture: material.TexturePath}
	}
	model.CalculateBoundingSphere()

	logger.Log.Info("OBJ loaded",
		zap.String("file", filename),
		zap.Int("vertices", len(vertices)),
		zap.Int("triangles", len(indices)/3))
	return model, nil
}

type vertexKey struct {
	v, vt, vn int32
}

func unify(corners []FaceVertex, positions, texCoords, normals []float32) ([]mgl32.Vec3, []mgl32.Vec2, []mgl32.Vec3, []int32, error) {
	seen := make(map[vertexKey]int32)
	var vertices []mgl32.Vec3
	var uvs []mgl32.Vec2
	var vertexNormals []mgl32.Vec3
	indices := make([]int32, 0, len(corners))

	for _, c := range corners {
		key := vertexKey{c.VertexIdx, c.TexCoordIdx, c.NormalIdx}
		if idx, ok := seen[key]; ok {
			indices = append(indices, idx)
			continue
		}
		if c.VertexIdx < 0 || int(c.VertexIdx)*3+2 >= len(positions) {
			return nil, nil, nil, nil, fmt.Errorf("vertex index %d out of range", c.VertexIdx+1)
		}
		p := positions[c.VertexIdx*3:]
		vertices = append(vertices, mgl32.Vec3{p[0], p[1], p[2]})

		uv := mgl32.Vec2{}
		if c.TexCoordIdx >= 0 && int(c.TexCoordIdx)*2+1 < len(texCoords) {
			uv = mgl32.Vec2{texCoords[c.TexCoordIdx*2], texCoords[c.TexCoordIdx*2+1]}
		}
		uvs = append(uvs, uv)

		n := mgl32.Vec3{0, 1, 0}
		if c.NormalIdx >= 0 && int(c.NormalIdx)*3+2 < len(normals) {
			n = mgl32.Vec3{normals[c.NormalIdx*3], normals[c.NormalIdx*3+1], normals[c.NormalIdx*3+2]}
		}
		vertexNormals = append(vertexNormals, n)

		idx := int32(len(vertices) - 1)
		seen[key] = idx
		indices = append(indices, idx)
	}
	return vertices, uvs, vertexNormals, indices, nil
}

// MaterialDef is one newmtl entry of an MTL file.
type MaterialDef struct {
	renderer.Material
	TexturePath string
}

// LoadMaterials parses Kd, Ks, Ns and map_Kd from an MTL file. Texture
// paths are resolved against the MTL's directory.
func LoadMaterials(filename string) (map[string]*MaterialDef, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	materials := make(map[string]*MaterialDef)
	var current *MaterialDef
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "newmtl" {
			if len(fields) < 2 {
				continue
			}
			current = &MaterialDef{Material: *renderer.DefaultMaterial}
			current.Name = fields[1]
			materials[fields[1]] = current
			continue
		}
		if current == nil {
			continue
		}
		switch fields[0] {
		case "Kd":
			if c, err := parseFloats(fields[1:], 3); err == nil {
				current.DiffuseColor = [3]float32{c[0], c[1], c[2]}
			}
		case "Ks":
			if c, err := parseFloats(fields[1:], 3); err == nil {
				current.SpecularColor = [3]float32{c[0], c[1], c[2]}
			}
		case "Ns":
			if v, err := parseFloats(fields[1:], 1); err == nil {
				current.Shininess = v[0]
			}
		case "map_Kd":
			if len(fields) >= 2 {
				path := fields[len(fields)-1]
				if !filepath.IsAbs(path) {
					path = filepath.Join(filepath.Dir(filename), path)
				}
				current.TexturePath = path
			}
		}
	}
	return materials, scanner.Err()
}

// parseFloats reads exactly n leading values; extra fields such as the
// optional w are ignored.
func parseFloats(parts []string, n int) ([]float32, error) {
	if len(parts) < n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(parts))
	}
	values := make([]float32, n)
	for i := 0; i < n; i++ {
		val, err := strconv.ParseFloat(parts[i], 32)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", parts[i], err)
		}
		values[i] = float32(val)
	}
	return values, nil
}

// parseFace reads v, v/vt, v//vn or v/vt/vn corners and fans polygons into
// triangles. Indices come back zero based, -1 when absent.
func parseFace(parts []string) ([]FaceVertex, error) {
	if len(parts) < 3 {
		return nil, fmt.Errorf("face needs 3 corners, got %d", len(parts))
	}
	face := make([]FaceVertex, 0, len(parts))
	for _, part := range parts {
		vals := strings.Split(part, "/")
		vertexIdx, err := strconv.ParseInt(vals[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vertex index %q: %w", vals[0], err)
		}
		fv := FaceVertex{VertexIdx: int32(vertexIdx - 1), TexCoordIdx: -1, NormalIdx: -1}

		if len(vals) > 1 && vals[1] != "" {
			idx, err := strconv.ParseInt(vals[1], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid texture coordinate index %q: %w", vals[1], err)
			}
			fv.TexCoordIdx = int32(idx - 1)
		}
		if len(vals) > 2 && vals[2] != "" {
			idx, err := strconv.ParseInt(vals[2], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid normal index %q: %w", vals[2], err)
			}
			fv.NormalIdx = int32(idx - 1)
		}
		face = append(face, fv)
	}

	if len(face) == 3 {
		return face, nil
	}
	triangulated := make([]FaceVertex, 0, (len(face)-2)*3)
	for i := 1; i < len(face)-1; i++ {
		triangulated = append(triangulated, face[0], face[i], face[i+1])
	}
	return triangulated, nil
}

// RecalculateNormals averages face normals into smooth vertex normals.
func RecalculateNormals(vertices []mgl32.Vec3, indices []int32) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if int(a) >= len(vertices) || int(b) >= len(vertices) || int(c) >= len(vertices) {
			continue
		}
		normal := vertices[b].Sub(vertices[a]).Cross(vertices[c].Sub(vertices[a]))
		normals[a] = normals[a].Add(normal)
		normals[b] = normals[b].Add(normal)
		normals[c] = normals[c].Add(normal)
	}
	for i, n := range normals {
		if n.Len() < 1e-12 {
			normals[i] = mgl32.Vec3{0, 1, 0}
			continue
		}
		normals[i] = n.Normalize()
	}
	return normals
}
