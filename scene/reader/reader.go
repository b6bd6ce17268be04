package reader

import (
	"fmt"

	"github.com/achilleasa/raytra/asset"
	"github.com/achilleasa/raytra/scene"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*scene.Scene, error)
}

// Read scene from a local file or http(s) URL. The reader is selected
// based on the file extension.
func ReadScene(filename string) (*scene.Scene, error) {
	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	reader, err := readerFor(res)
	if err != nil {
		return nil, err
	}
	return reader.Read(res)
}

func readerFor(res *asset.Resource) (Reader, error) {
	switch res.Ext() {
	case ".scn", ".txt", "":
		return newSceneFileReader(), nil
	case ".obj":
		return newWavefrontSceneReader(), nil
	}
	return nil, fmt.Errorf("readScene: unsupported file format %q", res.Ext())
}
