package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	domuser "github.com/betahouse/listings/internal/domain/user"
)

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"passwordHash"`
	Role         string             `bson:"role"`
	Avatar       string             `bson:"avatarUrl"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func toDoc(u domuser.User) userDoc {
	d := userDoc{
		Name:         u.Name(),
		Email:        u.Email(),
		PasswordHash: u.PasswordHash(),
		Role:         string(u.Role()),
		Avatar:       u.AvatarURL(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
	}
	if oid, err := primitive.ObjectIDFromHex(u.ID()); err == nil {
		d.ID = oid
	}
	return d
}

func (d userDoc) toDomain() domuser.User {
	return domuser.Reconstruct(
		d.ID.Hex(), d.Name, d.Email, d.PasswordHash,
		domuser.Role(d.Role), d.Avatar, d.CreatedAt, d.UpdatedAt,
	)
}
