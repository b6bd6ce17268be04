package reader

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/raytra/asset"
	"github.com/achilleasa/raytra/log"
	"github.com/achilleasa/raytra/scene"
	"github.com/achilleasa/raytra/types"
)

// Parses the vertex and face data of wavefront obj files into triangles.
// Material libraries, normals and texture coordinates are ignored.
type wavefrontParser struct {
	logger   log.Logger
	errStack *errorStack

	vertexList []types.Point
	ignored    map[string]int
}

func newWavefrontParser(logger log.Logger, errStack *errorStack) *wavefrontParser {
	return &wavefrontParser{
		logger:   logger,
		errStack: errStack,
		ignored:  make(map[string]int),
	}
}

// Parse triangles from res and assign them the given material.
func (p *wavefrontParser) parse(res *asset.Resource, material *scene.Material) ([]*scene.Triangle, error) {
	var lineNum int = 0
	triangles := make([]*scene.Triangle, 0)

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "v":
			// Some exporters append a w coordinate; it is dropped
			v, err := parseVec3(lineTokens)
			if err != nil {
				return nil, p.errStack.emit(res.Path(), lineNum, "%s", err.Error())
			}
			p.vertexList = append(p.vertexList, types.Point(v))
		case "f":
			faceTris, err := p.parseFace(lineTokens, material)
			if err != nil {
				return nil, p.errStack.emit(res.Path(), lineNum, "%s", err.Error())
			}
			triangles = append(triangles, faceTris...)
		case "vn", "vt", "g", "o", "s", "usemtl", "mtllib", "l", "p":
			p.ignored[lineTokens[0]]++
		default:
			p.logger.Warningf("[%s: %d] skipping unsupported directive %q", res.Path(), lineNum, lineTokens[0])
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, p.errStack.emit(res.Path(), lineNum, "%s", err.Error())
	}

	for directive, count := range p.ignored {
		p.logger.Debugf("[%s] ignored %d %q directives", res.Path(), count, directive)
	}

	return triangles, nil
}

// Parse a face and triangulate it as a fan around its first vertex.
func (p *wavefrontParser) parseFace(lineTokens []string, material *scene.Material) ([]*scene.Triangle, error) {
	if len(lineTokens) < 4 {
		return nil, fmt.Errorf(`unsupported syntax for "f"; expected at least 3 arguments; got %d`, len(lineTokens)-1)
	}

	vertices := make([]types.Point, len(lineTokens)-1)
	for arg := 0; arg < len(vertices); arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// Faces must at least define a vertex coord
		if vTokens[0] == "" {
			return nil, fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err := selectFaceCoordIndex(vTokens[0], len(p.vertexList))
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		vertices[arg] = p.vertexList[vOffset]
	}

	triangles := make([]*scene.Triangle, 0, len(vertices)-2)
	for index := 1; index < len(vertices)-1; index++ {
		triangles = append(triangles, scene.NewTriangle(vertices[0], vertices[index], vertices[index+1], material))
	}
	return triangles, nil
}

// Given a 1-based vertex index calculate the offset into the vertex list.
// Negative indices reference elements from the end of the list.
func selectFaceCoordIndex(indexToken string, coordListLen int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else {
		vOffset = int(index - 1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Loads a standalone wavefront obj file as a scene without a camera or
// lights. All faces share a light gray diffuse material.
type wavefrontSceneReader struct {
	logger   log.Logger
	errStack errorStack
}

func newWavefrontSceneReader() *wavefrontSceneReader {
	return &wavefrontSceneReader{
		logger: log.New("wavefront scene reader"),
	}
}

// Read scene definition from a resource.
func (r *wavefrontSceneReader) Read(res *asset.Resource) (*scene.Scene, error) {
	start := time.Now()
	r.logger.Noticef(`parsing scene from "%s"`, res.Path())

	material := &scene.Material{Diffuse: types.XYZ(0.7, 0.7, 0.7), Phong: 1}
	triangles, err := newWavefrontParser(r.logger, &r.errStack).parse(res, material)
	if err != nil {
		return nil, err
	}

	sc := scene.NewScene()
	sc.AddMaterial(material)
	for _, tri := range triangles {
		if err = sc.AddSurface(tri); err != nil {
			return nil, err
		}
	}

	r.logger.Noticef("parsed %d triangles in %d ms", len(triangles), time.Since(start).Nanoseconds()/1e6)
	return sc, nil
}
