package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmorate/internal/models"
)

type sentMessage struct {
	topic   string
	key     []byte
	payload []byte
}

type fakeProducer struct {
	sent []sentMessage
	err  error
}

func (p *fakeProducer) SendMessage(ctx context.Context, topic string, key []byte, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("expected a deadline")
	}
	p.sent = append(p.sent, sentMessage{topic: topic, key: key, payload: payload})
	return nil
}

func (p *fakeProducer) Close() {}

func TestEvent_EncodeDecode(t *testing.T) {
	film := models.Film{Name: "Inception", ReleaseDate: models.NewDate(2010, time.July, 16), Duration: 148}
	film.ID = 1

	e := ForFilm(FilmCreated, film)
	require.NotEmpty(t, e.ID)
	assert.Equal(t, uint(1), e.FilmID)

	data, err := e.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"releaseDate":"2010-07-16"`)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, FilmCreated, decoded.Type)
	assert.Equal(t, "Inception", decoded.Film.Name)
	assert.Empty(t, decoded.Audience)
}

func TestDecode_RejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"id":"x"}`))
	assert.ErrorContains(t, err, "missing type")
}

func TestEvent_Key(t *testing.T) {
	assert.Equal(t, "user-7", string(ForLike(FilmLiked, 3, 7, nil).Key()))
	assert.Equal(t, "film-3", string(ForFilm(FilmDeleted, models.Film{BaseModel: models.BaseModel{ID: 3}}).Key()))
}

func TestForFriendship_AddressesBothUsers(t *testing.T) {
	e := ForFriendship(FriendAdded, 1, 2)
	assert.Equal(t, []uint{1, 2}, e.Audience)
}

func TestKafkaPublisher(t *testing.T) {
	producer := &fakeProducer{}
	pub := NewKafkaPublisher(producer, "activity", time.Second)

	require.NoError(t, pub.Publish(context.Background(), ForFriendship(FriendAdded, 1, 2)))
	require.Len(t, producer.sent, 1)
	assert.Equal(t, "activity", producer.sent[0].topic)
	assert.Equal(t, "user-1", string(producer.sent[0].key))

	decoded, err := Decode(producer.sent[0].payload)
	require.NoError(t, err)
	assert.Equal(t, FriendAdded, decoded.Type)
}

func TestKafkaPublisher_Error(t *testing.T) {
	producer := &fakeProducer{err: errors.New("broker down")}
	pub := NewKafkaPublisher(producer, "activity", time.Second)

	err := pub.Publish(context.Background(), ForFriendship(FriendRemoved, 1, 2))
	assert.ErrorContains(t, err, "broker down")
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), Event{}))
}
