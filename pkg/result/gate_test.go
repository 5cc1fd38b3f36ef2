package result

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvad-hq/samvad-rest-facade/pkg/apperr"
	"github.com/samvad-hq/samvad-rest-facade/pkg/async"
)

type order struct {
	ID string `json:"id"`
}

func TestGateFailedEnvelopeBecomesBusinessError(t *testing.T) {
	env := Result[any]{Success: false, Code: "E1", Description: "bad state"}

	_, err := Gate(async.Resolved(env)).Await(context.Background())

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "E1", appErr.Code())
	assert.Equal(t, "bad state", appErr.Message())
	assert.Equal(t, apperr.KindBusiness, appErr.Kind())
}

func TestGateFailedEnvelopeIgnoresPayload(t *testing.T) {
	env := Result[order]{Success: false, Code: "2001", Description: "locked", Data: order{ID: "o-1"}}

	got, err := Gate(async.Resolved(env)).Await(context.Background())

	assert.Equal(t, Result[order]{}, got)
	assert.ErrorIs(t, err, apperr.Business("2001", "locked"))
}

func TestGateSuccessfulEnvelopePassesUnchanged(t *testing.T) {
	env := Result[order]{Success: true, Code: "0", Description: "ok", Data: order{ID: "o-1"}}

	got, err := Gate(async.Resolved(env)).Await(context.Background())

	require.NoError(t, err)
	assert.Equal(t, env, got)
}

func TestGateWorksOnPagedResults(t *testing.T) {
	page := PagedResult[order]{Success: true, Data: []order{{ID: "a"}}, TotalCount: 1}

	got, err := Gate(async.Resolved(page)).Await(context.Background())

	require.NoError(t, err)
	assert.Equal(t, page, got)

	_, err = Gate(async.Resolved(PagedResult[order]{Code: "P9", Description: "no page"})).Await(context.Background())
	assert.ErrorIs(t, err, apperr.Business("P9", "no page"))
}

func TestGateKeepsUpstreamError(t *testing.T) {
	upstream := apperr.System()

	_, err := Gate(async.Failed[Result[any]](upstream)).Await(context.Background())

	assert.ErrorIs(t, err, apperr.System())
}

func TestDecodeThenData(t *testing.T) {
	text := async.Resolved(`{"success":true,"code":"0","description":"ok","data":{"id":"o-7"}}`)

	got, err := Data(Decode[order](text, nil)).Await(context.Background())

	require.NoError(t, err)
	assert.Equal(t, order{ID: "o-7"}, got)
}

func TestDecodeFailedEnvelopeThroughData(t *testing.T) {
	text := async.Resolved(`{"success":false,"code":"E1","description":"bad state"}`)

	_, err := Data(Decode[order](text, nil)).Await(context.Background())

	assert.ErrorIs(t, err, apperr.Business("E1", "bad state"))
}

type captureLogger struct {
	msgs []string
}

func (c *captureLogger) ErrorObj(msg, _ string, _ interface{}) { c.msgs = append(c.msgs, msg) }

func TestDecodeInvalidJSONIsSystemError(t *testing.T) {
	log := &captureLogger{}

	_, err := Decode[order](async.Resolved("<html>"), log).Await(context.Background())

	assert.ErrorIs(t, err, apperr.System())
	assert.Equal(t, []string{"decode result envelope failed"}, log.msgs)
}

func TestDecodePaged(t *testing.T) {
	text := async.Resolved(`{"success":true,"data":[{"id":"a"},{"id":"b"}],"pageNo":1,"pageSize":2,"totalCount":9}`)

	got, err := Gate(DecodePaged[order](text, nil)).Await(context.Background())

	require.NoError(t, err)
	assert.Len(t, got.Data, 2)
	assert.Equal(t, int64(9), got.TotalCount)
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(Result[any]{Success: true}))
	err := Check(Result[any]{Code: "E2", Description: "nope"})
	assert.True(t, errors.Is(err, apperr.Business("E2", "nope")))
}
