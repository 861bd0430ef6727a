package auth

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"monipersonal/server/internal/model"
	"monipersonal/server/internal/session"
)

type fakeStudents struct {
	students map[int64]*model.Student
}

func (f *fakeStudents) FindActiveStudent(_ context.Context, id int64) (*model.Student, error) {
	student, ok := f.students[id]
	if !ok || !student.Active {
		return nil, pgx.ErrNoRows
	}
	return student, nil
}

func newTestResolver(t *testing.T) (*Resolver, *Codec, session.Store, *fakeStudents) {
	t.Helper()
	codec := NewCodec("test-secret", 24*time.Hour)
	sessions := session.NewMemory(24 * time.Hour)
	students := &fakeStudents{students: map[int64]*model.Student{
		10: {ID: 10, Name: "Ana", Email: "ana@example.local", Active: true},
	}}
	return NewResolver(codec, sessions, students), codec, sessions, students
}

func TestResolveEmptyToken(t *testing.T) {
	resolver, _, _, _ := newTestResolver(t)
	if identity := resolver.Resolve(context.Background(), ""); identity != nil {
		t.Fatalf("expected nil identity for empty token")
	}
}

func TestResolveSignedAdminToken(t *testing.T) {
	resolver, codec, _, _ := newTestResolver(t)
	token, err := codec.Encode(RoleAdmin, 1)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}

	identity := resolver.Resolve(context.Background(), token)
	if identity == nil || identity.Role != RoleAdmin || identity.SubjectID != 1 {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if identity.Student != nil {
		t.Fatalf("admin identity must carry no backing record")
	}
}

func TestResolveSignedStudentToken(t *testing.T) {
	resolver, codec, _, _ := newTestResolver(t)
	token, err := codec.Encode(RoleStudent, 10)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}

	identity := resolver.Resolve(context.Background(), token)
	if identity == nil || identity.Role != RoleStudent || identity.SubjectID != 10 {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if identity.Student == nil || identity.Student.Name != "Ana" {
		t.Fatalf("expected backing student record")
	}
}

func TestResolveStudentClaimWithoutBackingRecord(t *testing.T) {
	resolver, codec, _, _ := newTestResolver(t)
	token, err := codec.Encode(RoleStudent, 999)
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	if identity := resolver.Resolve(context.Background(), token); identity != nil {
		t.Fatalf("expected nil identity for unknown student claim")
	}
}

func TestResolveDeactivatedStudent(t *testing.T) {
	resolver, _, sessions, students := newTestResolver(t)
	token, err := sessions.Create(context.Background(), string(RoleStudent), 10)
	if err != nil {
		t.Fatalf("session create error: %v", err)
	}
	if identity := resolver.Resolve(context.Background(), token); identity == nil {
		t.Fatalf("expected valid identity before deactivation")
	}

	// The active check runs on every resolution, not just at login.
	students.students[10].Active = false
	if identity := resolver.Resolve(context.Background(), token); identity != nil {
		t.Fatalf("expected nil identity after deactivation")
	}
}

func TestResolveSessionTableFallback(t *testing.T) {
	resolver, _, sessions, _ := newTestResolver(t)
	token, err := sessions.Create(context.Background(), string(RoleAdmin), 1)
	if err != nil {
		t.Fatalf("session create error: %v", err)
	}

	identity := resolver.Resolve(context.Background(), token)
	if identity == nil || identity.Role != RoleAdmin {
		t.Fatalf("expected admin identity from session table, got %+v", identity)
	}
}

func TestResolveInvalidatedSession(t *testing.T) {
	resolver, _, sessions, _ := newTestResolver(t)
	ctx := context.Background()
	token, err := sessions.Create(ctx, string(RoleStudent), 10)
	if err != nil {
		t.Fatalf("session create error: %v", err)
	}
	if err := sessions.Invalidate(ctx, token); err != nil {
		t.Fatalf("invalidate error: %v", err)
	}
	if identity := resolver.Resolve(ctx, token); identity != nil {
		t.Fatalf("expected nil identity after logout")
	}
}

func TestResolveGarbageToken(t *testing.T) {
	resolver, _, _, _ := newTestResolver(t)
	if identity := resolver.Resolve(context.Background(), "garbage-token"); identity != nil {
		t.Fatalf("expected nil identity for garbage token")
	}
}
