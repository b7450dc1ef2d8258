package db

import (
	"bytes"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/scaletree/constants"
	"github.com/jsphweid/scaletree/model"
	"github.com/jsphweid/scaletree/project"
	"github.com/pkg/errors"
)

// NotFoundError means the table has no project under ID.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return "no project with id " + strconv.Quote(e.ID)
}

func NewClient() (*dynamodb.DynamoDB, error) {
	endpoint := constants.GetDynamoEndpoint()
	session, err := session.NewSession(&aws.Config{
		Region:   aws.String(constants.GetDynamoRegion()),
		Endpoint: &endpoint,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return dynamodb.New(session), nil
}

// Projects stores one project document per item: PK is the project id,
// Document its JSON and Version the snapshot version it was saved at.
type Projects struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewProjects(client dynamodbiface.DynamoDBAPI, table string) *Projects {
	return &Projects{client: client, table: table}
}

func (p *Projects) Get(id string) (model.Project, error) {
	key := map[string]*dynamodb.AttributeValue{
		"PK": {S: aws.String(id)},
	}
	res, err := p.client.GetItem(&dynamodb.GetItemInput{
		TableName:      aws.String(p.table),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return model.Project{}, errors.Wrapf(err, "could not get project %v", id)
	}
	if len(res.Item) == 0 {
		return model.Project{}, &NotFoundError{ID: id}
	}

	doc := res.Item["Document"]
	if doc == nil || doc.S == nil {
		return model.Project{}, errors.Errorf("project %v has no document", id)
	}
	proj, err := project.Parse([]byte(*doc.S))
	if err != nil {
		return model.Project{}, errors.Wrapf(err, "project %v", id)
	}
	proj.ID = id
	if v := res.Item["Version"]; v != nil && v.N != nil {
		version, err := strconv.ParseUint(*v.N, 10, 64)
		if err != nil {
			return model.Project{}, errors.Wrapf(err, "project %v has a bad version", id)
		}
		proj = proj.WithVersion(version)
	}
	return proj, nil
}

func (p *Projects) Put(proj model.Project) error {
	var buf bytes.Buffer
	if err := project.Encode(&buf, proj); err != nil {
		return err
	}
	_, err := p.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(p.table),
		Item: map[string]*dynamodb.AttributeValue{
			"PK":       {S: aws.String(proj.ID)},
			"Document": {S: aws.String(buf.String())},
			"Version":  {N: aws.String(strconv.FormatUint(proj.Hierarchy.Version, 10))},
		},
	})
	return errors.Wrapf(err, "could not put project %v", proj.ID)
}

// GetProject reads a project from the configured table.
func GetProject(id string) (model.Project, error) {
	client, err := NewClient()
	if err != nil {
		return model.Project{}, err
	}
	return NewProjects(client, constants.GetDynamoTable()).Get(id)
}

func PutProject(proj model.Project) error {
	client, err := NewClient()
	if err != nil {
		return err
	}
	return NewProjects(client, constants.GetDynamoTable()).Put(proj)
}
