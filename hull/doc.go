/*
Package hull provides axis-aligned bounding hulls for spatial indexing.

A Hull is a pure value type. The zero value is a degenerate hull around the
origin; use Empty() to get a hull which encloses nothing. Empty hulls are
neutral for union and never intersect anything.

_________________________________________________________________________

BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

All rights reserved.

Please refer to the License file in the repository root.
*/
package hull
