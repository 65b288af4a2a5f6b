// Package examdb is the entity layer of the peer-review exam: users, the
// single exam, the question catalog, question assignments, answers, review
// assignments and grades.
//
// Every keyed entity follows one protocol with two explicit operations:
//
//   - Get(key) looks a row up by its natural key and never writes. A miss
//     either fails with ErrNotFound or yields a sentinel value, depending on
//     the entity's MissPolicy.
//   - Put(key, payload) finds the row by natural key, inserts it if absent,
//     otherwise overwrites every payload column. The surrogate id of an
//     existing row never changes.
//
// Policies per entity:
//
//	Entity        Natural key        On miss    Writes
//	User          userid             sentinel   upsert
//	Exam          (singleton)        not found  first write wins
//	Question      number, variant    not found  upsert
//	UserQuestion  id only            -          append only
//	Answer        uqid               not found  upsert
//	UserReview    id only            -          append only
//	Review        revid              not found  upsert
//
// Entities reference each other only through surrogate ids. Referential
// integrity is the caller's responsibility.
//
// Upserts and the Exam first write each run inside one store.Atomic scope
// keyed by the table and natural key. Derived queries (NthQuestion,
// AllAnswers, NReviews, AllReviews, IsAssigned) are plain reads.
//
// Creation order is surrogate id order. Listings sort by id explicitly.
package examdb
