package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devgenix/surpriseal/internal/reveal"
)

func TestGetPresentation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	doc, _ := json.Marshal(reveal.Presentation{
		RecipientName: "Sam",
		Style: reveal.StyleConfig{
			ThemeID: "roses",
			Panels:  []reveal.Panel{{ID: "p1", Type: reveal.PanelComposition}},
		},
	})
	mock.ExpectQuery("SELECT doc").
		WithArgs("pres-1").
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow(doc))

	s := New(mock)
	pres, err := s.GetPresentation(context.Background(), "pres-1")
	require.NoError(t, err)
	assert.Equal(t, "pres-1", pres.ID, "id backfilled from the lookup key")
	assert.Equal(t, "Sam", pres.RecipientName)
	assert.Len(t, pres.Style.Panels, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPresentation_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT doc").
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	_, err = New(mock).GetPresentation(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetPresentation_CorruptDocument(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT doc").
		WithArgs("pres-1").
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow([]byte("{not json")))

	_, err = New(mock).GetPresentation(context.Background(), "pres-1")
	assert.Error(t, err, "corrupt document must surface")
}

func TestPutPresentation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	pres := &reveal.Presentation{ID: "pres-2", RecipientName: "Ana"}
	doc, _ := json.Marshal(pres)

	mock.ExpectExec("INSERT INTO presentations").
		WithArgs("pres-2", doc).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, New(mock).PutPresentation(context.Background(), pres))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPutPresentation_DatabaseError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO presentations").
		WillReturnError(pgx.ErrTxClosed)

	err = New(mock).PutPresentation(context.Background(), &reveal.Presentation{ID: "pres-2"})
	assert.Error(t, err)
}
