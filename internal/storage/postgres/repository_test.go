//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"roadwatch/internal/domain"
	"roadwatch/pkg/e"
)

var (
	testPool *pgxpool.Pool
	tc       testcontainers.Container
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	user := "postgres"
	pass := "postgres"
	db := "postgres"

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": pass,
			"POSTGRES_DB":       db,
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(90 * time.Second),
	}

	var err error
	tc, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Println("cannot start container:", err)
		os.Exit(1)
	}

	host, _ := tc.Host(ctx)
	mappedPort, _ := tc.MappedPort(ctx, "5432/tcp")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, mappedPort.Port(), db)

	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Println("pgxpool.New:", err)
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	if err := testPool.Ping(ctx); err != nil {
		fmt.Println("pool.Ping:", err)
		testPool.Close()
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	pg := &Postgres{Pool: testPool}
	if err := pg.Migrate(ctx); err != nil {
		fmt.Println("migrate:", err)
		testPool.Close()
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	code := m.Run()

	testPool.Close()
	_ = tc.Terminate(ctx)
	os.Exit(code)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func truncateAll(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), `TRUNCATE TABLE alert_votes, alert_ratings, alerts`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

func seedAlert(t *testing.T, store *AlertStore, lat, lng float64) *domain.Alert {
	t.Helper()
	alert := &domain.Alert{
		Title: "seeded",
		Type:  domain.AlertInfo,
		Lat:   lat,
		Lng:   lng,
	}
	if err := store.Create(context.Background(), alert); err != nil {
		t.Fatalf("seed alert: %v", err)
	}
	return alert
}

func TestAlertStore_Create_Get_RoundTrip(t *testing.T) {
	truncateAll(t)

	store := NewAlertStore(testPool, testLogger())

	alert := &domain.Alert{
		Title:       "truck lost its load",
		Description: "boxes across two lanes",
		Type:        domain.AlertObstacleOnRoad,
		Lat:         49.281441,
		Lng:         -123.055913,
		Accuracy:    15,
		Place:       "East Hastings",
	}
	if err := store.Create(context.Background(), alert); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if alert.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if alert.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt set")
	}

	got, err := store.Get(context.Background(), alert.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Lat != alert.Lat || got.Lng != alert.Lng {
		t.Fatalf("lat/lng mismatch got=(%v,%v) want=(%v,%v)", got.Lat, got.Lng, alert.Lat, alert.Lng)
	}
	if got.Type != domain.AlertObstacleOnRoad || got.Place != "East Hastings" {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestAlertStore_Get_NotFound(t *testing.T) {
	truncateAll(t)

	store := NewAlertStore(testPool, testLogger())

	_, err := store.Get(context.Background(), 424242)
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestAlertStore_Update_NotFound(t *testing.T) {
	truncateAll(t)

	store := NewAlertStore(testPool, testLogger())

	err := store.Update(context.Background(), &domain.Alert{ID: 424242, Title: "x", Type: domain.AlertInfo})
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestAlertStore_FindNearby_BoundingBox(t *testing.T) {
	truncateAll(t)

	store := NewAlertStore(testPool, testLogger())

	center := struct{ lat, lng float64 }{38.89768, -77.03655}

	inside := seedAlert(t, store, center.lat+1.0, center.lng-1.0)
	onEdge := seedAlert(t, store, center.lat+1.1, center.lng+1.1)
	outsideLat := seedAlert(t, store, center.lat+1.2, center.lng)
	outsideLng := seedAlert(t, store, center.lat, center.lng+1.2)

	got, err := store.FindNearby(context.Background(), center.lat, center.lng)
	if err != nil {
		t.Fatalf("FindNearby: %v", err)
	}

	found := map[int64]bool{}
	for _, a := range got {
		found[a.ID] = true
	}
	if !found[inside.ID] || !found[onEdge.ID] {
		t.Fatalf("expected alerts inside the box (ids %d, %d), got %v", inside.ID, onEdge.ID, found)
	}
	if found[outsideLat.ID] || found[outsideLng.ID] {
		t.Fatalf("alerts outside the box must not match, got %v", found)
	}
}

func TestAlertStore_FindNearby_OrderedNewestFirst(t *testing.T) {
	truncateAll(t)

	store := NewAlertStore(testPool, testLogger())

	first := seedAlert(t, store, 10, 20)
	time.Sleep(10 * time.Millisecond)
	second := seedAlert(t, store, 10.5, 20.5)

	got, err := store.FindNearby(context.Background(), 10, 20)
	if err != nil {
		t.Fatalf("FindNearby: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(got))
	}
	if got[0].ID != second.ID || got[1].ID != first.ID {
		t.Fatalf("expected newest first, got ids %d, %d", got[0].ID, got[1].ID)
	}
}

func TestAlertStore_FindNearby_CapsAtLimit(t *testing.T) {
	truncateAll(t)

	store := NewAlertStore(testPool, testLogger())

	center := struct{ lat, lng float64 }{38.89768, -77.03655}

	const seeded = nearbyLimit + 5
	newest := int64(0)
	oldest := make(map[int64]bool, 5)
	for i := 0; i < seeded; i++ {
		alert := &domain.Alert{
			Title:     "seeded",
			Type:      domain.AlertInfo,
			Lat:       center.lat + 0.5,
			Lng:       center.lng - 0.5,
			CreatedAt: time.Date(2025, 1, 1, 0, 0, i, 0, time.UTC),
		}
		if err := store.Create(context.Background(), alert); err != nil {
			t.Fatalf("seed alert %d: %v", i, err)
		}
		newest = alert.ID
		if i < seeded-nearbyLimit {
			oldest[alert.ID] = true
		}
	}

	got, err := store.FindNearby(context.Background(), center.lat, center.lng)
	if err != nil {
		t.Fatalf("FindNearby: %v", err)
	}
	if len(got) != nearbyLimit {
		t.Fatalf("expected exactly %d results, got %d", nearbyLimit, len(got))
	}
	if got[0].ID != newest {
		t.Fatalf("expected newest alert %d first, got %d", newest, got[0].ID)
	}
	for _, a := range got {
		if oldest[a.ID] {
			t.Fatalf("alert %d is older than the cap window and must be cut off", a.ID)
		}
	}
}

func TestVoteLedger_FirstVote(t *testing.T) {
	truncateAll(t)

	store := NewAlertStore(testPool, testLogger())
	ledger := NewVoteLedger(testPool, testLogger())

	alert := seedAlert(t, store, 1, 1)
	userID := uuid.New()

	agg, err := ledger.Cast(context.Background(), alert.ID, userID, true)
	if err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if agg.Upvotes != 1 || agg.Downvotes != 0 {
		t.Fatalf("expected {1,0}, got {%d,%d}", agg.Upvotes, agg.Downvotes)
	}
}

func TestVoteLedger_RepeatSameVote_Conflict(t *testing.T) {
	truncateAll(t)

	store := NewAlertStore(testPool, testLogger())
	ledger := NewVoteLedger(testPool, testLogger())

	alert := seedAlert(t, store, 1, 1)
	userID := uuid.New()

	if _, err := ledger.Cast(context.Background(), alert.ID, userID, true); err != nil {
		t.Fatalf("first Cast: %v", err)
	}

	_, err := ledger.Cast(context.Background(), alert.ID, userID, true)
	if !errors.Is(err, e.ErrConflict) {
		t.Fatalf("expected ErrConflict on repeat vote, got: %v", err)
	}

	agg, err := ledger.Ratings(context.Background(), alert.ID)
	if err != nil {
		t.Fatalf("Ratings: %v", err)
	}
	if agg.Upvotes != 1 || agg.Downvotes != 0 {
		t.Fatalf("counters must be unchanged after conflict, got {%d,%d}", agg.Upvotes, agg.Downvotes)
	}
}

func TestVoteLedger_SwitchVote(t *testing.T) {
	truncateAll(t)

	store := NewAlertStore(testPool, testLogger())
	ledger := NewVoteLedger(testPool, testLogger())

	alert := seedAlert(t, store, 1, 1)
	userID := uuid.New()

	if _, err := ledger.Cast(context.Background(), alert.ID, userID, true); err != nil {
		t.Fatalf("first Cast: %v", err)
	}

	agg, err := ledger.Cast(context.Background(), alert.ID, userID, false)
	if err != nil {
		t.Fatalf("switch Cast: %v", err)
	}
	if agg.Upvotes != 0 || agg.Downvotes != 1 {
		t.Fatalf("expected {0,1} after switch, got {%d,%d}", agg.Upvotes, agg.Downvotes)
	}
}

func TestVoteLedger_ConcurrentFirstVotes_CountOnce(t *testing.T) {
	truncateAll(t)

	store := NewAlertStore(testPool, testLogger())
	ledger := NewVoteLedger(testPool, testLogger())

	alert := seedAlert(t, store, 1, 1)
	userID := uuid.New()

	// Two racing first votes collide on the (alert_id, user_id) primary key;
	// the loser must rerun against the committed row and resolve to Conflict,
	// never to a second counted vote.
	const casters = 8
	errs := make(chan error, casters)
	var start, wg sync.WaitGroup
	start.Add(1)
	for i := 0; i < casters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start.Wait()
			_, err := ledger.Cast(context.Background(), alert.ID, userID, true)
			errs <- err
		}()
	}
	start.Done()
	wg.Wait()
	close(errs)

	var accepted, conflicted int
	for err := range errs {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, e.ErrConflict):
			conflicted++
		default:
			t.Fatalf("unexpected cast error: %v", err)
		}
	}
	if accepted != 1 || conflicted != casters-1 {
		t.Fatalf("expected 1 accepted and %d conflicted, got %d/%d", casters-1, accepted, conflicted)
	}

	var voteRows int
	if err := testPool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM alert_votes WHERE alert_id = $1 AND user_id = $2`,
		alert.ID, userID).Scan(&voteRows); err != nil {
		t.Fatalf("count votes: %v", err)
	}
	if voteRows != 1 {
		t.Fatalf("expected exactly 1 vote row, got %d", voteRows)
	}

	agg, err := ledger.Ratings(context.Background(), alert.ID)
	if err != nil {
		t.Fatalf("Ratings: %v", err)
	}
	if agg.Upvotes+agg.Downvotes != 1 {
		t.Fatalf("expected a single counted vote, got {%d,%d}", agg.Upvotes, agg.Downvotes)
	}
}

func TestVoteLedger_TwoUsersIndependent(t *testing.T) {
	truncateAll(t)

	store := NewAlertStore(testPool, testLogger())
	ledger := NewVoteLedger(testPool, testLogger())

	alert := seedAlert(t, store, 1, 1)

	if _, err := ledger.Cast(context.Background(), alert.ID, uuid.New(), true); err != nil {
		t.Fatalf("first user Cast: %v", err)
	}
	agg, err := ledger.Cast(context.Background(), alert.ID, uuid.New(), false)
	if err != nil {
		t.Fatalf("second user Cast: %v", err)
	}
	if agg.Upvotes != 1 || agg.Downvotes != 1 {
		t.Fatalf("expected {1,1}, got {%d,%d}", agg.Upvotes, agg.Downvotes)
	}
}

func TestVoteLedger_Cast_UnknownAlert(t *testing.T) {
	truncateAll(t)

	ledger := NewVoteLedger(testPool, testLogger())

	_, err := ledger.Cast(context.Background(), 424242, uuid.New(), true)
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestVoteLedger_AverageRating(t *testing.T) {
	truncateAll(t)

	store := NewAlertStore(testPool, testLogger())
	ledger := NewVoteLedger(testPool, testLogger())

	alert := seedAlert(t, store, 1, 1)

	// no votes yet: average must be zero, not a division error
	avg, err := ledger.AverageRating(context.Background(), alert.ID)
	if err != nil {
		t.Fatalf("AverageRating: %v", err)
	}
	if avg != 0 {
		t.Fatalf("expected 0 average with no votes, got %v", avg)
	}

	userA, userB := uuid.New(), uuid.New()
	if _, err := ledger.Cast(context.Background(), alert.ID, userA, true); err != nil {
		t.Fatalf("Cast A: %v", err)
	}
	if _, err := ledger.Cast(context.Background(), alert.ID, userB, true); err != nil {
		t.Fatalf("Cast B: %v", err)
	}
	// A switches sides: a third vote event lands on the same ledger rows
	if _, err := ledger.Cast(context.Background(), alert.ID, userA, false); err != nil {
		t.Fatalf("Cast A switch: %v", err)
	}

	avg, err = ledger.AverageRating(context.Background(), alert.ID)
	if err != nil {
		t.Fatalf("AverageRating: %v", err)
	}
	// counters are {1 up, 1 down} over 3 recorded vote events
	want := 2.0 / 3.0
	if avg < want-1e-9 || avg > want+1e-9 {
		t.Fatalf("expected average %v, got %v", want, avg)
	}
}

func TestVoteLedger_Ratings_ZeroForUnvotedAlert(t *testing.T) {
	truncateAll(t)

	store := NewAlertStore(testPool, testLogger())
	ledger := NewVoteLedger(testPool, testLogger())

	alert := seedAlert(t, store, 1, 1)

	agg, err := ledger.Ratings(context.Background(), alert.ID)
	if err != nil {
		t.Fatalf("Ratings: %v", err)
	}
	if agg.Upvotes != 0 || agg.Downvotes != 0 {
		t.Fatalf("expected zero counters, got {%d,%d}", agg.Upvotes, agg.Downvotes)
	}
}

func TestVoteLedger_Ratings_UnknownAlert(t *testing.T) {
	truncateAll(t)

	ledger := NewVoteLedger(testPool, testLogger())

	_, err := ledger.Ratings(context.Background(), 424242)
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestVoteLedger_AllRatings_OnlyVotedAlerts(t *testing.T) {
	truncateAll(t)

	store := NewAlertStore(testPool, testLogger())
	ledger := NewVoteLedger(testPool, testLogger())

	voted := seedAlert(t, store, 1, 1)
	_ = seedAlert(t, store, 2, 2) // never voted on

	if _, err := ledger.Cast(context.Background(), voted.ID, uuid.New(), true); err != nil {
		t.Fatalf("Cast: %v", err)
	}

	aggs, err := ledger.AllRatings(context.Background())
	if err != nil {
		t.Fatalf("AllRatings: %v", err)
	}
	if len(aggs) != 1 || aggs[0].AlertID != voted.ID {
		t.Fatalf("expected only the voted alert, got %+v", aggs)
	}
}

func TestAlertStore_Delete_CascadesVotesAndRatings(t *testing.T) {
	truncateAll(t)

	store := NewAlertStore(testPool, testLogger())
	ledger := NewVoteLedger(testPool, testLogger())

	alert := seedAlert(t, store, 1, 1)
	if _, err := ledger.Cast(context.Background(), alert.ID, uuid.New(), true); err != nil {
		t.Fatalf("Cast: %v", err)
	}

	if err := store.Delete(context.Background(), alert.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := store.Get(context.Background(), alert.ID); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got: %v", err)
	}
	if _, err := ledger.Ratings(context.Background(), alert.ID); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound ratings after delete, got: %v", err)
	}

	var votes int
	if err := testPool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM alert_votes WHERE alert_id = $1`, alert.ID).Scan(&votes); err != nil {
		t.Fatalf("count votes: %v", err)
	}
	if votes != 0 {
		t.Fatalf("expected vote rows removed with the alert, got %d", votes)
	}

	if err := store.Delete(context.Background(), alert.ID); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got: %v", err)
	}
}
