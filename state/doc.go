// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the staged key/value state of the engine.
// It follows the flow as below:
//
//	        o
//	        |
//	[ revertable state ]
//	        |
//	 [ stacked map ] -> [ journal ] -> [ stage ] -> [ kv batch ]
//	        |
//	  [ lru cache ]
//	        |
//	   [ kv store ]
//
// Nothing reaches the store until Stage().Commit() writes the journal as one batch.
package state
