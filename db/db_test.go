package db

import (
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/scaletree/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo keeps items in memory, keyed by PK.
type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items map[string]map[string]*dynamodb.AttributeValue
}

func (f *fakeDynamo) GetItem(in *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.items[*in.Key["PK"].S]}, nil
}

func (f *fakeDynamo) PutItem(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
	f.items[*in.Item["PK"].S] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func newFake() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]*dynamodb.AttributeValue)}
}

func TestGet(t *testing.T) {
	fake := newFake()
	fake.items["p1"] = map[string]*dynamodb.AttributeValue{
		"PK":       {S: aws.String("p1")},
		"Document": {S: aws.String(`{"tracks": [{"id": "A", "scale": "major"}], "scales": [{"id": "major", "degrees": [0, 2, 4]}]}`)},
		"Version":  {N: aws.String("7")},
	}

	p, err := NewProjects(fake, "projects").Get("p1")
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("p1", p.ID)
	assert.Equal(uint64(7), p.Hierarchy.Version)
	assert.Equal(uint64(7), p.Poses.Version)
	assert.Equal([]int{0, 2, 4}, p.Hierarchy.Scales["major"].Degrees)
}

func TestGetMissing(t *testing.T) {
	_, err := NewProjects(newFake(), "projects").Get("nope")

	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nope", notFound.ID)
}

func TestGetBadDocument(t *testing.T) {
	fake := newFake()
	fake.items["p1"] = map[string]*dynamodb.AttributeValue{
		"PK":       {S: aws.String("p1")},
		"Document": {S: aws.String(`{"tracks": `)},
	}
	_, err := NewProjects(fake, "projects").Get("p1")
	assert.Error(t, err)
}

func TestGetBadVersion(t *testing.T) {
	fake := newFake()
	fake.items["p1"] = map[string]*dynamodb.AttributeValue{
		"PK":       {S: aws.String("p1")},
		"Document": {S: aws.String(`{"tracks": [], "scales": []}`)},
		"Version":  {N: aws.String("seven")},
	}
	_, err := NewProjects(fake, "projects").Get("p1")
	assert.ErrorContains(t, err, "bad version")
}

func TestPutThenGet(t *testing.T) {
	fake := newFake()
	projects := NewProjects(fake, "projects")
	p := model.Project{
		ID: "p2",
		Hierarchy: model.Hierarchy{
			Version: 3,
			Tracks: map[model.TrackID]model.Track{
				"A": {ID: "A", Kind: model.ScaleTrackKind, ScaleID: "major"},
			},
		},
	}
	require.NoError(t, projects.Put(p))
	assert.Equal(t, "3", *fake.items["p2"]["Version"].N)

	got, err := projects.Get("p2")
	require.NoError(t, err)
	assert.Equal(t, p.Hierarchy.Tracks, got.Hierarchy.Tracks)
	assert.Equal(t, uint64(3), got.Hierarchy.Version)
}
