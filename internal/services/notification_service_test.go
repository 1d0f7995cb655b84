package services

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/sprintdesk/internal/models"
	"gorm.io/gorm"
)

type stubNotificationRepo struct {
	created  []models.Notification
	failFor  map[uint]bool
	stored   map[uint]models.Notification
	markedID uint
}

func (stub *stubNotificationRepo) Create(notification *models.Notification) error {
	if stub.failFor[notification.UserID] {
		return errors.New("insert failed")
	}
	notification.ID = uint(len(stub.created) + 1)
	stub.created = append(stub.created, *notification)
	return nil
}

func (stub *stubNotificationRepo) ListByUser(uint, int, int) ([]models.Notification, error) {
	return nil, nil
}

func (stub *stubNotificationRepo) CountByUser(uint) (int64, error) {
	return 0, nil
}

func (stub *stubNotificationRepo) CountUnread(uint) (int64, error) {
	return 0, nil
}

func (stub *stubNotificationRepo) FindForUser(notificationID uint, userID uint) (models.Notification, error) {
	notification, ok := stub.stored[notificationID]
	if !ok || notification.UserID != userID {
		return models.Notification{}, gorm.ErrRecordNotFound
	}
	return notification, nil
}

func (stub *stubNotificationRepo) MarkRead(notificationID uint) error {
	stub.markedID = notificationID
	return nil
}

func (stub *stubNotificationRepo) MarkAllRead(uint) (int64, error) {
	return 0, nil
}

func (stub *stubNotificationRepo) Delete(uint) error {
	return nil
}

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRecipientsForRemovesActorDuplicatesAndZeroIDs(t *testing.T) {
	t.Parallel()

	got := RecipientsFor(NotificationEvent{
		ActorID:    4,
		Candidates: []uint{7, 4, 0, 2, 7, 4, 9, 2},
	})
	want := []uint{2, 7, 9}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("RecipientsFor() = %v, want %v", got, want)
	}
}

func TestRecipientsForNeverIncludesActor(t *testing.T) {
	t.Parallel()

	for actorID := uint(0); actorID < 6; actorID++ {
		for _, candidates := range [][]uint{nil, {actorID}, {1, 2, 3, 4, 5}, {actorID, actorID, 3}} {
			for _, recipient := range RecipientsFor(NotificationEvent{ActorID: actorID, Candidates: candidates}) {
				if recipient == actorID || recipient == 0 {
					t.Fatalf("RecipientsFor(actor=%d, %v) included %d", actorID, candidates, recipient)
				}
			}
		}
	}
}

func TestNotifyStoresOneRowPerRecipientAndSwallowsFailures(t *testing.T) {
	t.Parallel()

	repo := &stubNotificationRepo{failFor: map[uint]bool{3: true}}
	service := NewNotificationService(repo, quietLogger())
	projectID := uint(10)

	stored := service.Notify(context.Background(), NotificationEvent{
		Type:       models.NotificationProjectMemberJoined,
		Message:    "Bob joined the project \"Apollo\"",
		ActorID:    2,
		Candidates: []uint{1, 2, 3, 1},
		ProjectID:  &projectID,
	})
	if stored != 1 {
		t.Fatalf("Notify() stored %d, want 1", stored)
	}
	if len(repo.created) != 1 || repo.created[0].UserID != 1 {
		t.Fatalf("expected a single notification for user 1, got %#v", repo.created)
	}

	created := repo.created[0]
	if created.RelatedUserID == nil || *created.RelatedUserID != 2 {
		t.Fatalf("expected related user to be the actor, got %v", created.RelatedUserID)
	}
	if created.RelatedProjectID == nil || *created.RelatedProjectID != projectID {
		t.Fatalf("expected related project %d, got %v", projectID, created.RelatedProjectID)
	}
}

func TestNotifyStopsWhenContextIsCancelled(t *testing.T) {
	t.Parallel()

	repo := &stubNotificationRepo{}
	service := NewNotificationService(repo, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if stored := service.Notify(ctx, NotificationEvent{ActorID: 1, Candidates: []uint{2, 3}}); stored != 0 {
		t.Fatalf("Notify() stored %d after cancellation, want 0", stored)
	}
}

func TestNormalizeNotificationPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", limit: 0, offset: -5, wantLimit: DefaultNotificationPageSize, wantOffset: 0},
		{name: "caps limit", limit: 500, offset: 40, wantLimit: MaxNotificationPageSize, wantOffset: 40},
		{name: "keeps valid values", limit: 5, offset: 10, wantLimit: 5, wantOffset: 10},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			limit, offset := NormalizeNotificationPage(test.limit, test.offset)
			if limit != test.wantLimit || offset != test.wantOffset {
				t.Fatalf("NormalizeNotificationPage(%d, %d) = %d, %d; want %d, %d",
					test.limit, test.offset, limit, offset, test.wantLimit, test.wantOffset)
			}
		})
	}
}

func TestMarkReadIsScopedToRecipient(t *testing.T) {
	t.Parallel()

	repo := &stubNotificationRepo{stored: map[uint]models.Notification{
		5: {ID: 5, UserID: 1, Message: "hello"},
	}}
	service := NewNotificationService(repo, quietLogger())

	if _, err := service.MarkRead(2, 5); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound for another user's notification, got %v", err)
	}

	notification, err := service.MarkRead(1, 5)
	if err != nil {
		t.Fatalf("MarkRead() unexpected error: %v", err)
	}
	if !notification.IsRead || repo.markedID != 5 {
		t.Fatalf("expected notification 5 to be marked read, got %#v (marked %d)", notification, repo.markedID)
	}
}
