// Package http exposes the floor service as a JSON API.
//
// The router exposes the following endpoints:
//   - GET /turn-time?guests=&table_id=: expected occupancy in minutes for a party.
//   - GET /conflicts?time_a=&guests_a=&time_b=&guests_b=&table_id=: whether two
//     parties would collide on one table.
//   - GET /floor: every table in display order plus the unassigned reservation pool.
//   - GET /floors/{floor}?date=: tables of one floor with derived display state
//     (elapsed time, reserved, upcoming/late warnings, stalled).
//   - GET /stats?floor=&date=: occupancy statistics and pending reservations.
//   - GET /availability?date=&time=&guests=&floor=&exclude=: table candidates for a
//     booking, available tables first and tightest fit first.
//   - POST /tables, PATCH /tables/{id}, DELETE /tables/{id}: table management
//     exchanging the `tableDTO` payload defined in dto.go.
//   - POST /tables/{id}/occupy|free|reset|orders|check-in|check-out|merge|split:
//     table lifecycle and merge operations.
//   - POST /reservations: books a reservation on a table, in the unassigned pool, or
//     with `table_ids` on a merge of several tables. PUT /reservations/{id} edits it;
//     POST /reservations/{id}/move and /cancel relocate or cancel it; DELETE removes it.
//
// Overridable booking conflicts answer 409 with error_code TIME_CONFLICT or
// CAPACITY_CONFLICT and the permitted resolutions; repeating the request with
// "force": true books anyway. A walk-in over an imminent booking answers 409
// IMMINENT_RESERVATION with the candidate reservations.
package http
