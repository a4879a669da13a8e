// Package friend contains all HTTP handlers related to the Friend resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// The router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like a database.
// To inject dependencies we use a factory function that:
//  1. Accepts dependencies (storage)
//  2. Returns a function with the exact signature the router needs
//
// Because the inner function "closes over" the outer parameters, it can
// access `storage` even after the factory call has returned. Example:
//
//	r.Post("/friends", friend.New(storage))
//	//                 ^^^^^^^^^^^^^^^^^^^
//	//                 New(storage) is called ONCE at startup.
//	//                 It returns a handler func which is called
//	//                 on EVERY incoming request.
package friend

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/karanjoshi/friends-map-api/internal/storage"
	"github.com/karanjoshi/friends-map-api/internal/types"
	"github.com/karanjoshi/friends-map-api/internal/utils/response"
)

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/friends
// Creates a new friend from the JSON request body.
//
// Request body (JSON):
//
//	{ "name": "Ana", "location": "Rome",
//	  "coords": { "lat": 41.9, "lng": 12.5 },
//	  "notes": "met at GopherCon", "otherCities": "Florence, Naples" }
//
// Success response (200 OK):
//
//	{ "message": "Friend added successfully", "friend": { "id": 1, ... } }
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or failed validation
//	500 Internal     — database error
//
// A latitude or longitude of exactly 0 is valid — presence is checked
// through pointer fields, not truthiness (see types.CoordsInput).
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a friend")

		// ── Step 1: Decode JSON body into the request struct ──────────
		var req types.CreateFriendRequest

		err := json.NewDecoder(r.Body).Decode(&req)

		if errors.Is(err, io.EOF) {
			// io.EOF means the body was completely empty — nothing to decode.
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}

		if err != nil {
			// Any other decode error: malformed JSON, wrong types, etc.
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// ── Step 2: Validate the decoded struct ───────────────────────
		// validator.New().Struct(v) checks all validate:"..." tags on v,
		// descending into the nested Coords struct when it is present.
		if err := validator.New().Struct(req); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		// ── Step 3: Persist to database ───────────────────────────────
		created, err := storage.CreateFriend(req)
		if err != nil {
			slog.Error("error creating friend", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(errors.New("failed to create friend")))
			return
		}

		slog.Info("friend created", slog.Int64("id", created.ID))

		// ── Step 4: Echo back the stored record with its generated id ─
		response.WriteJSON(w, http.StatusOK, map[string]any{
			"message": "Friend added successfully",
			"friend":  created,
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/friends (privileged)
// Returns a JSON array of all friends, newest first, including the
// private notes and otherCities fields.
//
// Returns an empty array [] (not null) when there are no friends.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all friends")

		friends, err := storage.GetFriends()
		if err != nil {
			slog.Error("error getting friends", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(errors.New("failed to fetch friends")))
			return
		}

		response.WriteJSON(w, http.StatusOK, friends)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetPublicList handles GET /api/friends/public
// Same ordering as GetList but each record is projected through
// types.Friend.Public(), so notes and otherCities never appear in the
// response — regardless of whether they were supplied at creation.
// ─────────────────────────────────────────────────────────────────────────────
func GetPublicList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting public friends")

		friends, err := storage.GetFriends()
		if err != nil {
			slog.Error("error getting friends", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(errors.New("failed to fetch friends")))
			return
		}

		public := make([]types.PublicFriend, 0, len(friends))
		for _, f := range friends {
			public = append(public, f.Public())
		}

		response.WriteJSON(w, http.StatusOK, public)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/friends/{id}
// Permanently removes one friend record.
//
// Success response (200 OK):
//
//	{ "message": "Friend deleted" }
//
// Error responses:
//
//	400 Bad Request  — id is not a valid integer
//	404 Not Found    — no friend with that id
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		slog.Info("deleting a friend", slog.String("id", id))

		// The URL gives us a string; the database needs int64.
		intID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("invalid id: must be an integer")))
			return
		}

		if err := store.DeleteFriendByID(intID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				response.WriteJSON(w, http.StatusNotFound,
					response.GeneralError(fmt.Errorf("no friend found with id: %d", intID)))
				return
			}
			slog.Error("error deleting friend",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(errors.New("failed to delete friend")))
			return
		}

		slog.Info("friend deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, map[string]string{"message": "Friend deleted"})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// DeleteAll handles DELETE /api/friends
// Removes every friend record and reports how many were removed.
//
// Success response (200 OK):
//
//	{ "message": "Deleted 3 friends" }
//
// ─────────────────────────────────────────────────────────────────────────────
func DeleteAll(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("deleting all friends")

		removed, err := storage.DeleteAllFriends()
		if err != nil {
			slog.Error("error deleting all friends", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(errors.New("failed to delete friends")))
			return
		}

		slog.Info("friends deleted", slog.Int64("count", removed))
		response.WriteJSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("Deleted %d friends", removed),
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Stats handles GET /api/stats
// Returns aggregate counts for the admin dashboard:
//
//	{ "totalFriends": 2, "friendsWithNotes": 1, "friendsWithRecommendations": 1 }
//
// ─────────────────────────────────────────────────────────────────────────────
func Stats(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting stats")

		stats, err := storage.GetStats()
		if err != nil {
			slog.Error("error getting stats", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(errors.New("failed to compute stats")))
			return
		}

		response.WriteJSON(w, http.StatusOK, stats)
	}
}
