package db

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/tabdex/chord"
	"github.com/jsphweid/tabdex/constants"
	"github.com/jsphweid/tabdex/model"
	"github.com/jsphweid/tabdex/util"
	"github.com/pkg/errors"
)

// attempts per batch before unprocessed items are reported as an error
const maxAttempts = 5

// SongMetadata is one indexed tab, keyed by its name under the media dir.
// Chords holds every distinct chord key played; ChordNames maps diagram
// names to the chord key they sound.
type SongMetadata struct {
	PK           string            `dynamodbav:"PK" json:"path"`
	Title        string            `dynamodbav:"Title" json:"title"`
	Subtitle     string            `dynamodbav:"Subtitle,omitempty" json:"subtitle,omitempty"`
	Artist       string            `dynamodbav:"Artist" json:"artist"`
	Album        string            `dynamodbav:"Album,omitempty" json:"album,omitempty"`
	Tempo        int32             `dynamodbav:"Tempo" json:"tempo"`
	MeasureCount int32             `dynamodbav:"MeasureCount" json:"measure_count"`
	Tracks       []string          `dynamodbav:"Tracks,omitempty" json:"tracks"`
	Chords       []string          `dynamodbav:"Chords,omitempty" json:"chords,omitempty"`
	ChordNames   map[string]string `dynamodbav:"ChordNames,omitempty" json:"chord_names,omitempty"`
	Warnings     int               `dynamodbav:"Warnings" json:"warnings"`
	RunID        string            `dynamodbav:"RunId" json:"run_id"`
}

func FromSong(name string, song *model.Song, warnings int) SongMetadata {
	m := SongMetadata{
		PK:           name,
		Title:        song.Metadata.Title,
		Subtitle:     song.Metadata.Subtitle,
		Artist:       song.Metadata.Artist,
		Album:        song.Metadata.Album,
		Tempo:        song.Tempo,
		MeasureCount: song.MeasureCount,
		Warnings:     warnings,
	}
	chords := make(map[string]bool)
	names := make(map[string]string)
	for i, t := range song.TrackHeaders {
		m.Tracks = append(m.Tracks, t.Name)
		for _, key := range chord.Track(song, i) {
			chords[key] = true
		}
		for name, key := range chord.Diagrams(song, i) {
			names[name] = key
		}
	}
	if len(chords) > 0 {
		m.Chords = util.GetKeys(chords)
	}
	if len(names) > 0 {
		m.ChordNames = names
	}
	return m
}

type Client struct {
	api   dynamodbiface.DynamoDBAPI
	table string
}

// NewClient connects to the DynamoDB endpoint from the environment.
func NewClient() (*Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(constants.GetDynamoRegion()),
		Endpoint: aws.String(constants.GetDynamoEndpoint()),
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return NewClientWithAPI(dynamodb.New(sess), constants.GetMetadataTable()), nil
}

func NewClientWithAPI(api dynamodbiface.DynamoDBAPI, table string) *Client {
	return &Client{api: api, table: table}
}

func (c *Client) Table() string {
	return c.table
}

// PutSongMetadatas writes rows in batches, retrying whatever DynamoDB
// hands back as unprocessed.
func (c *Client) PutSongMetadatas(ctx context.Context, rows []SongMetadata) error {
	for _, batch := range util.Chunk(rows, constants.BatchWriteSize) {
		var requests []*dynamodb.WriteRequest
		for _, row := range batch {
			item, err := dynamodbattribute.MarshalMap(row)
			if err != nil {
				return errors.Wrapf(err, "could not marshal %s", row.PK)
			}
			requests = append(requests, &dynamodb.WriteRequest{
				PutRequest: &dynamodb.PutRequest{Item: item},
			})
		}

		pending := map[string][]*dynamodb.WriteRequest{c.table: requests}
		for attempt := 0; len(pending[c.table]) > 0; attempt++ {
			if attempt == maxAttempts {
				return errors.Errorf("%d items left unprocessed in %s", len(pending[c.table]), c.table)
			}
			out, err := c.api.BatchWriteItemWithContext(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
			if err != nil {
				return errors.Wrap(err, "error from DynamoDB")
			}
			pending = out.UnprocessedItems
		}
	}
	return nil
}

// GetSongMetadatas fetches the rows for names. Names with no row are
// simply missing from the result.
func (c *Client) GetSongMetadatas(ctx context.Context, names []string) (map[string]SongMetadata, error) {
	res := make(map[string]SongMetadata)

	// BatchGetItem rejects repeated keys
	for _, batch := range util.Chunk(util.Unique(names), constants.BatchGetSize) {
		var keys []map[string]*dynamodb.AttributeValue
		for _, name := range batch {
			keys = append(keys, map[string]*dynamodb.AttributeValue{
				"PK": {S: aws.String(name)},
			})
		}

		pending := map[string]*dynamodb.KeysAndAttributes{c.table: {Keys: keys}}
		for attempt := 0; pending[c.table] != nil && len(pending[c.table].Keys) > 0; attempt++ {
			if attempt == maxAttempts {
				return nil, errors.Errorf("%d keys left unprocessed in %s", len(pending[c.table].Keys), c.table)
			}
			out, err := c.api.BatchGetItemWithContext(ctx, &dynamodb.BatchGetItemInput{RequestItems: pending})
			if err != nil {
				return nil, errors.Wrap(err, "error from DynamoDB")
			}
			for _, item := range out.Responses[c.table] {
				var m SongMetadata
				if err := dynamodbattribute.UnmarshalMap(item, &m); err != nil {
					return nil, errors.Wrap(err, "could not unmarshal song metadata")
				}
				res[m.PK] = m
			}
			pending = out.UnprocessedKeys
		}
	}
	return res, nil
}
