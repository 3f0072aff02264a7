// Package hzip implements a byte-oriented Huffman compression codec.
//
// A Huffman tree is built from the byte frequencies of the input, written to
// the output as a compact list of its leaves, and then used to pack the input
// one bit at a time.  The tree's internal structure is never stored: the
// decoder recovers it by replaying the same deterministic merge over the
// leaves it reads back.  That replay only works because every node in the
// priority queue is ordered by (frequency, smallest symbol), a total order
// that leaves no room for ties.
//
// The compressed container is:
//
//     '#' <count> ' ' <symbol> ',' ... '#'    tree leaves, left to right
//     8 bytes, big-endian                     number of meaningful payload bits
//     payload                                 codes packed MSB-first
//
// References:
//
//     <https://en.wikipedia.org/wiki/Huffman_coding>
//
package hzip
