package project

import (
	"bytes"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/jsphweid/scaletree/model"
	"github.com/pkg/errors"
)

// map keys are sorted so saved files only change when the project does
var json = jsoniter.ConfigCompatibleWithStandardLibrary

func Decode(r io.Reader) (model.Project, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return model.Project{}, errors.Wrap(err, "could not decode project")
	}
	return FromDocument(doc), nil
}

// Parse is Decode for bytes already in memory, e.g. a DynamoDB attribute.
func Parse(data []byte) (model.Project, error) {
	return Decode(bytes.NewReader(data))
}

func Load(path string) (model.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Project{}, errors.Wrapf(err, "could not open project %v", path)
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		return model.Project{}, errors.Wrapf(err, "in %v", path)
	}
	return p, nil
}

func Encode(w io.Writer, p model.Project) error {
	data, err := json.MarshalIndent(ToDocument(p), "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not encode project")
	}
	_, err = w.Write(append(data, '\n'))
	return errors.Wrap(err, "could not write project")
}

func Save(path string, p model.Project) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create project %v", path)
	}
	return errors.Wrapf(encodeAndClose(f, p), "in %v", path)
}

func encodeAndClose(wc io.WriteCloser, p model.Project) error {
	if err := Encode(wc, p); err != nil {
		wc.Close()
		return err
	}
	return errors.Wrap(wc.Close(), "could not close project")
}
