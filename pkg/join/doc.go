// Package join matches the rows of two tables on one column each and
// produces an inner match (Intersect), a left join padded with empty
// strings (Join) or an anti-join (Absent).
//
// For every left row the engine looks for the first right row, in right
// table order, whose join value is equal to the left row's join value.
// Equality is Go's == over normalized table values, so the string "5" and
// the number 5 never match. Output rows always follow left table order and
// left values win every column collision.
package join
