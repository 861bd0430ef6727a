package auth

import (
	"context"

	"monipersonal/server/internal/model"
	"monipersonal/server/internal/session"
)

// Identity is a proved caller. Student identities carry the backing record
// re-fetched at resolution time; admin identities are trusted from the claim
// alone and have no backing record.
type Identity struct {
	Role      Role
	SubjectID int64
	Student   *model.Student
}

// StudentFinder loads the active student behind a claim. Inactive and
// unknown students must both come back as an error.
type StudentFinder interface {
	FindActiveStudent(ctx context.Context, id int64) (*model.Student, error)
}

// Resolver decides what a cookie token proves. The same cookie slot carries
// either a signed stateless token or a session-table key, so both mechanisms
// are tried blind: the codec first, the session table second.
type Resolver struct {
	codec    *Codec
	sessions session.Store
	students StudentFinder
}

func NewResolver(codec *Codec, sessions session.Store, students StudentFinder) *Resolver {
	return &Resolver{codec: codec, sessions: sessions, students: students}
}

// Resolve returns the identity a token proves, or nil. Every failure mode
// (absent, malformed, tampered, expired, unknown or deactivated subject)
// collapses into nil; callers translate that to a login redirect.
func (r *Resolver) Resolve(ctx context.Context, token string) *Identity {
	if token == "" {
		return nil
	}

	if claims, err := r.codec.Decode(token); err == nil {
		// A codec-valid student claim whose backing record is gone is
		// invalid outright; the session table is not consulted for it.
		return r.identify(ctx, claims.Role, claims.SubjectID)
	}

	entry, err := r.sessions.Resolve(ctx, token)
	if err != nil {
		return nil
	}
	return r.identify(ctx, Role(entry.Role), entry.SubjectID)
}

func (r *Resolver) identify(ctx context.Context, role Role, subjectID int64) *Identity {
	switch role {
	case RoleAdmin:
		return &Identity{Role: RoleAdmin, SubjectID: subjectID}
	case RoleStudent:
		student, err := r.students.FindActiveStudent(ctx, subjectID)
		if err != nil || student == nil {
			return nil
		}
		return &Identity{Role: RoleStudent, SubjectID: subjectID, Student: student}
	default:
		return nil
	}
}
