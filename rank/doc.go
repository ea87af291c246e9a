// Package rank turns a set of query documents into a single intent
// vector and scores the library against it.
//
// The intent vector is the unweighted mean of the normalized query
// chunk embeddings. The mean is deliberately left unnormalized; its
// magnitude reflects how much the query chunks agree with each other,
// and scales all similarities uniformly without disturbing their order.
package rank
