package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveHTTP(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/films/{id}", "404"))
	ObserveHTTP(http.MethodGet, "/films/{id}", http.StatusNotFound, 15*time.Millisecond)
	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/films/{id}", "404"))
	assert.Equal(t, before+1, after)
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(likeChanges.WithLabelValues("duplicate"))
	LikeChanged("duplicate")
	assert.Equal(t, before+1, testutil.ToFloat64(likeChanges.WithLabelValues("duplicate")))

	before = testutil.ToFloat64(friendshipChanges.WithLabelValues("added"))
	FriendshipChanged("added")
	assert.Equal(t, before+1, testutil.ToFloat64(friendshipChanges.WithLabelValues("added")))

	before = testutil.ToFloat64(activityDeliveries.WithLabelValues("dropped"))
	ActivityDelivered(false)
	assert.Equal(t, before+1, testutil.ToFloat64(activityDeliveries.WithLabelValues("dropped")))

	SetActivityClients(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(activityClients))
}
