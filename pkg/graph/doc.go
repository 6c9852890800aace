// Package graph defines the pipeline definition model consumed by the layout
// engine and its JSON serialization.
//
// # Overview
//
// A [Pipeline] maps step identifiers to [Step] values. Steps only persist the
// direction they depend on ([Step.IncomingConnections]); the inverse adjacency
// ([Step.OutgoingConnections]) is derived on load by [Derive].
//
// The step mapping is insertion ordered. Several downstream algorithms break
// ties by that order (component discovery, initial layer order, the topological
// sequence), so decoding a pipeline from JSON keeps the key order of the
// "steps" object exactly as written.
//
// # JSON Format
//
// The format mirrors the persisted pipeline definition:
//
//	{
//	  "uuid": "4f0c…",
//	  "name": "training",
//	  "settings": {"auto_eviction": false},
//	  "steps": {
//	    "a1…": {"uuid": "a1…", "title": "load", "incoming_connections": []},
//	    "b2…": {"uuid": "b2…", "title": "train", "incoming_connections": ["a1…"]}
//	  }
//	}
//
// outgoing_connections and meta_data.position are accepted on input but are
// recomputed by [Derive] and the layout engine respectively.
//
// # Immutability
//
// [Derive] and [Pipeline.Clone] never modify their input. Callers holding a
// pipeline for rendering can hand it to the layout engine without aliasing.
package graph
